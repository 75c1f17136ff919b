package model

// EventType names a realtime event
type EventType string

// Inbound events, sent by clients
const (
	EventRegisterUser         EventType = "register_user"
	EventUpdateProfile        EventType = "update_profile"
	EventGetAllUsers          EventType = "get_all_users"
	EventSearchUsers          EventType = "search_users"
	EventSendComment          EventType = "send_comment"
	EventSendFriendRequest    EventType = "send_friend_request"
	EventRespondFriendRequest EventType = "respond_friend_request"
	EventSendPrivateMessage   EventType = "send_private_message"
	EventGetPrivateMessages   EventType = "get_private_messages"
)

// Outbound events, sent by the server
const (
	EventInitComments          EventType = "init_comments"
	EventNewComment            EventType = "new_comment"
	EventAllUsers              EventType = "all_users"
	EventSearchResults         EventType = "search_results"
	EventNewFriendRequest      EventType = "new_friend_request"
	EventFriendRequestAccepted EventType = "friend_request_accepted"
	EventNewPrivateMessage     EventType = "new_private_message"
	EventInitPrivateMessages   EventType = "init_private_messages"
	EventProfileSync           EventType = "profile_sync"
	EventProfileUpdated        EventType = "profile_updated"
	EventProfileUpdateError    EventType = "profile_update_error"
	EventBannedNotice          EventType = "banned_notice"
	EventError                 EventType = "error"
)

// InboundEvents lists every event a client may send
var InboundEvents = []EventType{
	EventRegisterUser,
	EventUpdateProfile,
	EventGetAllUsers,
	EventSearchUsers,
	EventSendComment,
	EventSendFriendRequest,
	EventRespondFriendRequest,
	EventSendPrivateMessage,
	EventGetPrivateMessages,
}

// RegisterUserPayload is the data of a register_user event
type RegisterUserPayload struct {
	Username         string         `json:"username"`
	AvatarURL        *string        `json:"avatarUrl,omitempty"`
	Description      string         `json:"description,omitempty"`
	Password         string         `json:"password,omitempty"`
	MaxUnlockedNight int            `json:"maxUnlockedNight,omitempty"`
	HighScores       map[string]int `json:"highScores,omitempty"`
}

// UpdateProfilePayload is the data of an update_profile event.
// Nil fields are left unchanged.
type UpdateProfilePayload struct {
	Username    string  `json:"username"`
	NewUsername *string `json:"newUsername,omitempty"`
	Description *string `json:"description,omitempty"`
	Password    *string `json:"password,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// RespondFriendRequestPayload is the data of a respond_friend_request event
type RespondFriendRequestPayload struct {
	From   string              `json:"from"`
	To     string              `json:"to"`
	Status FriendRequestStatus `json:"status"`
}

// ConversationPayload is the data of a get_private_messages event
type ConversationPayload struct {
	User1 string `json:"user1"`
	User2 string `json:"user2"`
}

// ProfileUpdateKind distinguishes the two profile_updated notifications
type ProfileUpdateKind string

const (
	ProfileUpdateUsername ProfileUpdateKind = "username"
	ProfileUpdateFull     ProfileUpdateKind = "full"
)

// ProfileUpdatedPayload is the data of a profile_updated event
type ProfileUpdatedPayload struct {
	Type  ProfileUpdateKind `json:"type"`
	Value string            `json:"value,omitempty"`
	User  *UserProfile      `json:"user,omitempty"`
}

// ErrorPayload is the data of an error event
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
