package request

// VerifyPasswordRequest is the request body for checking a user's password
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}
