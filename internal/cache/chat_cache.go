package cache

import (
	"fmt"
	"strconv"
	"time"

	"github.com/roamly/roamly-backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ConversationTTL = 5 * time.Minute
	UnreadCountTTL  = 1 * time.Minute
)

// ChatCache caches first-page conversation history and unread counts. All
// methods degrade to cache misses when Redis is unavailable (nil receiver
// or nil client), so the chat path never depends on the cache being up.
type ChatCache struct {
	redis *RedisCache
}

func NewChatCache(redis *RedisCache) *ChatCache {
	return &ChatCache{redis: redis}
}

// conversationKey is symmetric: smaller id first.
func conversationKey(userID1, userID2 uint) string {
	if userID1 > userID2 {
		userID1, userID2 = userID2, userID1
	}
	return fmt.Sprintf("chat:conv:%d:%d", userID1, userID2)
}

func communityKey(communityID uint) string {
	return fmt.Sprintf("chat:community:%d", communityID)
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("chat:unread:%d", userID)
}

func (cc *ChatCache) GetConversation(userID1, userID2 uint) ([]models.Message, bool) {
	if cc == nil || cc.redis == nil {
		return nil, false
	}
	data, err := cc.redis.Get(conversationKey(userID1, userID2))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

func (cc *ChatCache) SetConversation(userID1, userID2 uint, messages []models.Message) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return cc.redis.Set(conversationKey(userID1, userID2), data, ConversationTTL)
}

func (cc *ChatCache) GetCommunityConversation(communityID uint) ([]models.Message, bool) {
	if cc == nil || cc.redis == nil {
		return nil, false
	}
	data, err := cc.redis.Get(communityKey(communityID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

func (cc *ChatCache) SetCommunityConversation(communityID uint, messages []models.Message) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return cc.redis.Set(communityKey(communityID), data, ConversationTTL)
}

func (cc *ChatCache) GetUnreadCount(userID uint) (int64, bool) {
	if cc == nil || cc.redis == nil {
		return 0, false
	}
	data, err := cc.redis.Get(unreadKey(userID))
	if err != nil || data == nil {
		return 0, false
	}
	count, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (cc *ChatCache) SetUnreadCount(userID uint, count int64) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Set(unreadKey(userID), []byte(strconv.FormatInt(count, 10)), UnreadCountTTL)
}

// InvalidateConversation drops the cached page and both unread counts.
func (cc *ChatCache) InvalidateConversation(userID1, userID2 uint) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(
		conversationKey(userID1, userID2),
		unreadKey(userID1),
		unreadKey(userID2),
	)
}

func (cc *ChatCache) InvalidateCommunity(communityID uint) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(communityKey(communityID))
}

func (cc *ChatCache) InvalidateUnread(userID uint) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(unreadKey(userID))
}
