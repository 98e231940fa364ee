package cache

import (
	"fmt"
	"time"
)

// Entry pairs a fully-formed cache key with the TTL its namespace carries.
// Handlers never build raw key strings; every cacheable entity has exactly
// one constructor here so namespaces and TTLs stay consistent.
type Entry struct {
	Key string
	TTL time.Duration
}

// Per-namespace TTLs. Profiles change rarely; feeds, connection lists and
// pending requests go stale quickly once the graph mutates, so they carry
// short TTLs as a backstop behind explicit invalidation.
const (
	TTLUserProfile     = 30 * time.Minute
	TTLUserConnections = 5 * time.Minute
	TTLUserRequests    = 3 * time.Minute
	TTLFeedPage        = 10 * time.Minute
	TTLConnection      = time.Hour
	TTLChatThread      = 4 * time.Minute
)

// UserProfile keys a single user's profile
func UserProfile(userID string) Entry {
	return Entry{
		Key: fmt.Sprintf("user:%s:profile", userID),
		TTL: TTLUserProfile,
	}
}

// UserConnections keys a user's accepted-connection list
func UserConnections(userID string) Entry {
	return Entry{
		Key: fmt.Sprintf("user:%s:connections", userID),
		TTL: TTLUserConnections,
	}
}

// UserRequests keys a user's pending received requests
func UserRequests(userID string) Entry {
	return Entry{
		Key: fmt.Sprintf("user:%s:requests", userID),
		TTL: TTLUserRequests,
	}
}

// FeedPage keys one page of a user's feed
func FeedPage(userID string, page int) Entry {
	return Entry{
		Key: fmt.Sprintf("feed:%s:page:%d", userID, page),
		TTL: TTLFeedPage,
	}
}

// FeedPattern matches every cached feed page for a user
func FeedPattern(userID string) string {
	return fmt.Sprintf("feed:%s:page:*", userID)
}

// ConnectionByID keys a single connection record
func ConnectionByID(connectionID string) Entry {
	return Entry{
		Key: fmt.Sprintf("connection:%s", connectionID),
		TTL: TTLConnection,
	}
}

// ChatThread keys the message thread between two users. The key is
// directional because read state differs per viewer.
func ChatThread(viewerID, targetID string) Entry {
	return Entry{
		Key: fmt.Sprintf("chats:%s:to:%s", viewerID, targetID),
		TTL: TTLChatThread,
	}
}
