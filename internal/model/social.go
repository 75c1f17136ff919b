package model

// FriendRequestStatus is the lifecycle state of a friend request
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// Valid reports whether s is a known status
func (s FriendRequestStatus) Valid() bool {
	switch s {
	case FriendRequestPending, FriendRequestAccepted, FriendRequestRejected:
		return true
	}
	return false
}

// FriendRequest links two usernames. Friendship is an accepted request.
type FriendRequest struct {
	From   string              `json:"from"`
	To     string              `json:"to"`
	Status FriendRequestStatus `json:"status"`
}

// Involves reports whether the request is between a and b in either direction
func (r *FriendRequest) Involves(a, b string) bool {
	return (r.From == a && r.To == b) || (r.From == b && r.To == a)
}

// Other returns the counterpart of username in the request
func (r *FriendRequest) Other(username string) string {
	if r.From == username {
		return r.To
	}
	return r.From
}
