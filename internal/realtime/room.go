package realtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Room keys. A room is a logical delivery target: every user has a personal
// room receiving their private messages, every community has a shared room.

func UserRoom(userID uint) string {
	return fmt.Sprintf("user_%d", userID)
}

func CommunityRoom(communityID uint) string {
	return fmt.Sprintf("community_%d", communityID)
}

// ParseCommunityRoom extracts the community id from a "community_{id}" key.
func ParseCommunityRoom(roomKey string) (uint, bool) {
	rest, ok := strings.CutPrefix(roomKey, "community_")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParseUserRoom extracts the user id from a "user_{id}" key.
func ParseUserRoom(roomKey string) (uint, bool) {
	rest, ok := strings.CutPrefix(roomKey, "user_")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
