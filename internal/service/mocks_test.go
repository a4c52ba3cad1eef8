package service

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/realtime"
)

// MockUserRepository is an in-memory UserRepositoryInterface for tests.
type MockUserRepository struct {
	users  map[uint]*models.User
	nextID uint

	CreateErr error
	FindErr   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uint]*models.User), nextID: 1}
}

func (m *MockUserRepository) Add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = m.nextID
	}
	if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
	m.users[user.ID] = user
	return user
}

func (m *MockUserRepository) Create(user *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.Add(user)
	return nil
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *MockUserRepository) Update(user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = user
	return nil
}

// MockCommunityRepository is an in-memory CommunityRepositoryInterface.
type MockCommunityRepository struct {
	communities map[uint]*models.Community
	members     map[uint]map[uint]bool
	users       *MockUserRepository
	nextID      uint

	CreateErr error
}

func NewMockCommunityRepository(users *MockUserRepository) *MockCommunityRepository {
	return &MockCommunityRepository{
		communities: make(map[uint]*models.Community),
		members:     make(map[uint]map[uint]bool),
		users:       users,
		nextID:      1,
	}
}

func (m *MockCommunityRepository) Add(community *models.Community) *models.Community {
	if community.ID == 0 {
		community.ID = m.nextID
	}
	if community.ID >= m.nextID {
		m.nextID = community.ID + 1
	}
	m.communities[community.ID] = community
	if m.members[community.ID] == nil {
		m.members[community.ID] = make(map[uint]bool)
	}
	return community
}

func (m *MockCommunityRepository) Create(community *models.Community) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Add(community)
	return nil
}

func (m *MockCommunityRepository) FindByID(id uint) (*models.Community, error) {
	c, ok := m.communities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *MockCommunityRepository) List(limit int) ([]models.Community, error) {
	out := make([]models.Community, 0, len(m.communities))
	for _, c := range m.communities {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockCommunityRepository) Update(community *models.Community) error {
	if _, ok := m.communities[community.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.communities[community.ID] = community
	return nil
}

func (m *MockCommunityRepository) AddMember(communityID, userID uint) error {
	if _, ok := m.communities[communityID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if m.members[communityID] == nil {
		m.members[communityID] = make(map[uint]bool)
	}
	m.members[communityID][userID] = true
	return nil
}

func (m *MockCommunityRepository) RemoveMember(communityID, userID uint) error {
	if m.members[communityID] != nil {
		delete(m.members[communityID], userID)
	}
	return nil
}

func (m *MockCommunityRepository) GetMembers(communityID uint) ([]models.User, error) {
	ids := make([]uint, 0, len(m.members[communityID]))
	for id := range m.members[communityID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if m.users != nil {
			if u, err := m.users.FindByID(id); err == nil {
				out = append(out, *u)
				continue
			}
		}
		out = append(out, models.User{ID: id})
	}
	return out, nil
}

func (m *MockCommunityRepository) IsMember(communityID, userID uint) (bool, error) {
	return m.members[communityID][userID], nil
}

func (m *MockCommunityRepository) GetUserCommunities(userID uint) ([]models.Community, error) {
	var out []models.Community
	for id, members := range m.members {
		if members[userID] {
			out = append(out, *m.communities[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockMessageRepository is an in-memory MessageRepositoryInterface with the
// same ordering semantics as the real one.
type MockMessageRepository struct {
	messages map[uint]*models.Message
	nextID   uint

	CreateErr error
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{messages: make(map[uint]*models.Message), nextID: 1}
}

func (m *MockMessageRepository) Add(message *models.Message) *models.Message {
	if message.ID == 0 {
		message.ID = m.nextID
	}
	if message.ID >= m.nextID {
		m.nextID = message.ID + 1
	}
	m.messages[message.ID] = message
	return message
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	m.Add(message)
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return msg, nil
}

func (m *MockMessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	for _, msg := range m.messages {
		if msg.ClientID == clientID && msg.SenderID == senderID {
			return msg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) page(match func(*models.Message) bool, limit int, before *time.Time) []models.Message {
	var selected []*models.Message
	for _, msg := range m.messages {
		if !match(msg) {
			continue
		}
		if before != nil && !msg.CreatedAt.Before(*before) {
			continue
		}
		selected = append(selected, msg)
	}

	// Newest first, then trim, then back to chronological.
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
	for i, msg := range selected {
		out[len(selected)-1-i] = *msg
	}
	return out
}

func (m *MockMessageRepository) FindConversation(userID, otherUserID uint, limit int, before *time.Time) ([]models.Message, error) {
	return m.page(func(msg *models.Message) bool {
		if msg.ReceiverID == nil {
			return false
		}
		return (msg.SenderID == userID && *msg.ReceiverID == otherUserID) ||
			(msg.SenderID == otherUserID && *msg.ReceiverID == userID)
	}, limit, before), nil
}

func (m *MockMessageRepository) FindCommunityMessages(communityID uint, limit int, before *time.Time) ([]models.Message, error) {
	return m.page(func(msg *models.Message) bool {
		return msg.CommunityID != nil && *msg.CommunityID == communityID
	}, limit, before), nil
}

func (m *MockMessageRepository) MarkConversationRead(readerID, peerID uint) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.ReceiverID != nil && *msg.ReceiverID == readerID && msg.SenderID == peerID && !msg.IsRead {
			msg.IsRead = true
			count++
		}
	}
	return count, nil
}

func (m *MockMessageRepository) MarkCommunityRead(readerID, communityID uint) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.CommunityID != nil && *msg.CommunityID == communityID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			count++
		}
	}
	return count, nil
}

func (m *MockMessageRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.ReceiverID != nil && *msg.ReceiverID == userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockMessageRepository) CountCommunityUnread(communityID, userID uint) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.CommunityID != nil && *msg.CommunityID == communityID && msg.SenderID != userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockMessageRepository) Delete(message *models.Message) error {
	delete(m.messages, message.ID)
	return nil
}

// MockBlocklistRepository is an in-memory TokenBlocklistRepositoryInterface.
type MockBlocklistRepository struct {
	entries map[string]time.Time
}

func NewMockBlocklistRepository() *MockBlocklistRepository {
	return &MockBlocklistRepository{entries: make(map[string]time.Time)}
}

func (m *MockBlocklistRepository) Add(jti string, expiresAt time.Time) error {
	m.entries[jti] = expiresAt
	return nil
}

func (m *MockBlocklistRepository) Contains(jti string) (bool, error) {
	_, ok := m.entries[jti]
	return ok, nil
}

func (m *MockBlocklistRepository) DeleteExpired() error {
	now := time.Now()
	for jti, exp := range m.entries {
		if exp.Before(now) {
			delete(m.entries, jti)
		}
	}
	return nil
}

// delivery records a single Deliver call.
type delivery struct {
	Message *models.Message
	Origin  realtime.Endpoint
}

// MockDeliverer records delivered messages instead of fanning out.
type MockDeliverer struct {
	Deliveries []delivery
}

func (m *MockDeliverer) Deliver(message *models.Message, origin realtime.Endpoint) {
	m.Deliveries = append(m.Deliveries, delivery{Message: message, Origin: origin})
}

// fakeEndpoint satisfies realtime.Endpoint for origin tracking.
type fakeEndpoint struct {
	userID uint
	events []string
}

func (f *fakeEndpoint) UserID() uint { return f.userID }

func (f *fakeEndpoint) Send(event string, payload interface{}) error {
	f.events = append(f.events, event)
	return nil
}
