package model

// MaxComments is the number of comments kept in the global feed
const MaxComments = 200

// Comment is a post on the global feed
type Comment struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl"` // snapshot at post time
	Text      string  `json:"text"`
	Timestamp int64   `json:"timestamp"` // epoch millis, client supplied
	ReplyTo   string  `json:"replyTo,omitempty"`
}

// PrivateMessage is a direct message between two users
type PrivateMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Between reports whether the message was exchanged by a and b in either direction
func (m *PrivateMessage) Between(a, b string) bool {
	return (m.From == a && m.To == b) || (m.From == b && m.To == a)
}
