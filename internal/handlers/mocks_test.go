package handlers

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/realtime"
	"github.com/roamly/roamly-backend/internal/service"
)

// fakeAuth stands in for the JWT middleware and injects the principal.
func fakeAuth(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

type stubUserRepo struct {
	users map[uint]*models.User
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(user *models.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Update(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

type stubCommunityRepo struct {
	communities map[uint]*models.Community
	members     map[uint]map[uint]bool
}

func newStubCommunityRepo() *stubCommunityRepo {
	return &stubCommunityRepo{
		communities: make(map[uint]*models.Community),
		members:     make(map[uint]map[uint]bool),
	}
}

func (r *stubCommunityRepo) add(c *models.Community, memberIDs ...uint) {
	r.communities[c.ID] = c
	r.members[c.ID] = make(map[uint]bool)
	for _, id := range memberIDs {
		r.members[c.ID][id] = true
	}
}

func (r *stubCommunityRepo) Create(c *models.Community) error {
	c.ID = uint(len(r.communities) + 1)
	r.add(c)
	return nil
}

func (r *stubCommunityRepo) FindByID(id uint) (*models.Community, error) {
	c, ok := r.communities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCommunityRepo) List(limit int) ([]models.Community, error) {
	out := make([]models.Community, 0, len(r.communities))
	for _, c := range r.communities {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCommunityRepo) Update(c *models.Community) error {
	r.communities[c.ID] = c
	return nil
}

func (r *stubCommunityRepo) AddMember(communityID, userID uint) error {
	if r.members[communityID] == nil {
		r.members[communityID] = make(map[uint]bool)
	}
	r.members[communityID][userID] = true
	return nil
}

func (r *stubCommunityRepo) RemoveMember(communityID, userID uint) error {
	delete(r.members[communityID], userID)
	return nil
}

func (r *stubCommunityRepo) GetMembers(communityID uint) ([]models.User, error) {
	var out []models.User
	for id := range r.members[communityID] {
		out = append(out, models.User{ID: id})
	}
	return out, nil
}

func (r *stubCommunityRepo) IsMember(communityID, userID uint) (bool, error) {
	return r.members[communityID][userID], nil
}

func (r *stubCommunityRepo) GetUserCommunities(userID uint) ([]models.Community, error) {
	var out []models.Community
	for id, members := range r.members {
		if members[userID] {
			out = append(out, *r.communities[id])
		}
	}
	return out, nil
}

type stubMessageRepo struct {
	messages map[uint]*models.Message
	nextID   uint
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{messages: make(map[uint]*models.Message), nextID: 1}
}

func (r *stubMessageRepo) add(m *models.Message) *models.Message {
	if m.ID == 0 {
		m.ID = r.nextID
	}
	if m.ID >= r.nextID {
		r.nextID = m.ID + 1
	}
	r.messages[m.ID] = m
	return m
}

func (r *stubMessageRepo) Create(m *models.Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.add(m)
	return nil
}

func (r *stubMessageRepo) FindByID(id uint) (*models.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMessageRepo) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	for _, m := range r.messages {
		if m.ClientID == clientID && m.SenderID == senderID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMessageRepo) page(match func(*models.Message) bool, limit int, before *time.Time) []models.Message {
	var selected []*models.Message
	for _, m := range r.messages {
		if !match(m) {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		selected = append(selected, m)
	}
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].CreatedAt.Equal(selected[j].CreatedAt) {
			return selected[i].ID > selected[j].ID
		}
		return selected[i].CreatedAt.After(selected[j].CreatedAt)
	})
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	out := make([]models.Message, len(selected))
	for i, m := range selected {
		out[len(selected)-1-i] = *m
	}
	return out
}

func (r *stubMessageRepo) FindConversation(userID, otherUserID uint, limit int, before *time.Time) ([]models.Message, error) {
	return r.page(func(m *models.Message) bool {
		if m.ReceiverID == nil {
			return false
		}
		return (m.SenderID == userID && *m.ReceiverID == otherUserID) ||
			(m.SenderID == otherUserID && *m.ReceiverID == userID)
	}, limit, before), nil
}

func (r *stubMessageRepo) FindCommunityMessages(communityID uint, limit int, before *time.Time) ([]models.Message, error) {
	return r.page(func(m *models.Message) bool {
		return m.CommunityID != nil && *m.CommunityID == communityID
	}, limit, before), nil
}

func (r *stubMessageRepo) MarkConversationRead(readerID, peerID uint) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.ReceiverID != nil && *m.ReceiverID == readerID && m.SenderID == peerID && !m.IsRead {
			m.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *stubMessageRepo) MarkCommunityRead(readerID, communityID uint) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.CommunityID != nil && *m.CommunityID == communityID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *stubMessageRepo) CountUnread(userID uint) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.ReceiverID != nil && *m.ReceiverID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *stubMessageRepo) CountCommunityUnread(communityID, userID uint) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.CommunityID != nil && *m.CommunityID == communityID && m.SenderID != userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *stubMessageRepo) Delete(m *models.Message) error {
	delete(r.messages, m.ID)
	return nil
}

// noopDeliverer satisfies the deliverer without a hub.
type noopDeliverer struct {
	count int
}

func (d *noopDeliverer) Deliver(message *models.Message, origin realtime.Endpoint) {
	d.count++
}

type handlerFixture struct {
	users       *stubUserRepo
	communities *stubCommunityRepo
	messages    *stubMessageRepo
	deliverer   *noopDeliverer
	chat        *service.ChatService
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		users:       newStubUserRepo(),
		communities: newStubCommunityRepo(),
		messages:    newStubMessageRepo(),
		deliverer:   &noopDeliverer{},
	}
	f.chat = service.NewChatService(f.messages, f.users, f.communities, nil, f.deliverer)
	return f
}
