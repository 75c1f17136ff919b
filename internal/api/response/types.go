package response

import (
	"time"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/services/moderation"
)

// UserList is a list of sanitized profiles
type UserList struct {
	Users []model.UserProfile `json:"users"`
	Count int                 `json:"count"`
}

// NewUserList wraps profiles in a UserList
func NewUserList(users []model.UserProfile) UserList {
	if users == nil {
		users = []model.UserProfile{}
	}
	return UserList{Users: users, Count: len(users)}
}

// Friends describes a user's friendships and requests
type Friends struct {
	Username string                `json:"username"`
	Friends  []string              `json:"friends"`
	Requests []model.FriendRequest `json:"requests"`
}

// CommentList is the global comment feed, oldest first
type CommentList struct {
	Comments []model.Comment `json:"comments"`
	Count    int             `json:"count"`
}

// ModerationStatus represents a user's moderation standing
type ModerationStatus struct {
	Username      string     `json:"username"`
	Violations    int        `json:"violations"`
	Banned        bool       `json:"banned"`
	BannedUntil   *time.Time `json:"banned_until"`
	RemainingDays int        `json:"remaining_days,omitempty"`
	Privileged    bool       `json:"privileged,omitempty"`
}

// ModerationStatusFromModel converts moderation.Status
func ModerationStatusFromModel(s moderation.Status) ModerationStatus {
	return ModerationStatus{
		Username:      s.Username,
		Violations:    s.Violations,
		Banned:        s.Banned,
		BannedUntil:   s.BannedUntil,
		RemainingDays: s.RemainingDays,
		Privileged:    s.Privileged,
	}
}
