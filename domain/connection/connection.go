package connection

import (
	"time"

	"meetgraph/pkg/errors"
)

// Status is the state of a connection edge
type Status string

const (
	StatusInterested Status = "interested"
	StatusIgnored    Status = "ignored"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
)

// IsValid reports whether s is a known status value
func (s Status) IsValid() bool {
	switch s {
	case StatusInterested, StatusIgnored, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// SendStatuses are the statuses a sender may create an edge with
var SendStatuses = []Status{StatusInterested, StatusIgnored}

// ReviewStatuses are the statuses a recipient may move an edge to
var ReviewStatuses = []Status{StatusAccepted, StatusRejected}

// IsSendStatus reports whether s is allowed on edge creation
func (s Status) IsSendStatus() bool {
	return s == StatusInterested || s == StatusIgnored
}

// IsReviewStatus reports whether s is allowed on review
func (s Status) IsReviewStatus() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Connection is a directed edge between two users. At most one edge exists
// per unordered pair, regardless of direction.
type Connection struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// New validates and builds a connection edge. The pair-uniqueness invariant
// is enforced by the store at creation; everything else is checked here.
func New(id, fromUserID, toUserID string, status Status) (*Connection, error) {
	if fromUserID == "" || toUserID == "" {
		return nil, errors.NewValidationError("both users are required for a connection")
	}
	if fromUserID == toUserID {
		return nil, errors.NewValidationError("cannot send a connection request to yourself")
	}
	if !status.IsSendStatus() {
		return nil, errors.NewValidationError("status must be 'interested' or 'ignored'")
	}

	now := time.Now()
	return &Connection{
		ID:         id,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Involves reports whether the edge touches the given user
func (c *Connection) Involves(userID string) bool {
	return c.FromUserID == userID || c.ToUserID == userID
}

// Counterpart returns the other side of the edge relative to userID
func (c *Connection) Counterpart(userID string) string {
	if c.FromUserID == userID {
		return c.ToUserID
	}
	return c.FromUserID
}

// Review validates a status transition requested by reviewerID and applies
// it. Only the recipient may review, and only an 'interested' edge can
// move; 'ignored' is terminal from creation.
func (c *Connection) Review(reviewerID string, status Status) error {
	if !status.IsReviewStatus() {
		return errors.NewValidationError("status must be 'accepted' or 'rejected'")
	}
	if c.ToUserID != reviewerID {
		return errors.NewForbiddenError("only the recipient can review this request")
	}
	if c.Status != StatusInterested {
		return errors.NewForbiddenError("only requests with 'interested' status can be reviewed")
	}

	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

// PairKey returns the order-independent key for the user pair, used by the
// store to enforce that at most one edge exists between two users.
func PairKey(userID1, userID2 string) string {
	if userID1 < userID2 {
		return userID1 + "#" + userID2
	}
	return userID2 + "#" + userID1
}
