package model

import "strings"

// UserProfile is a player's public identity plus their quiz progress
type UserProfile struct {
	Username         string         `json:"username"`
	AvatarURL        *string        `json:"avatarUrl"`
	Description      string         `json:"description,omitempty"`
	PasswordHash     string         `json:"passwordHash,omitempty"` // bcrypt hash, never sent to clients
	LegacyPassword   string         `json:"password,omitempty"`     // plaintext from older data files, upgraded on load
	MaxUnlockedNight int            `json:"maxUnlockedNight"`
	HighScores       map[string]int `json:"highScores"`
}

// Sanitized returns a copy of the profile that is safe to send over the wire
func (p *UserProfile) Sanitized() UserProfile {
	out := p.Clone()
	out.PasswordHash = ""
	out.LegacyPassword = ""
	return out
}

// Clone returns a deep copy of the profile
func (p *UserProfile) Clone() UserProfile {
	out := *p
	if p.AvatarURL != nil {
		avatar := *p.AvatarURL
		out.AvatarURL = &avatar
	}
	out.HighScores = make(map[string]int, len(p.HighScores))
	for k, v := range p.HighScores {
		out.HighScores[k] = v
	}
	return out
}

// Avatar returns the avatar URL or the empty string when unset
func (p *UserProfile) Avatar() string {
	if p.AvatarURL == nil {
		return ""
	}
	return *p.AvatarURL
}

// MatchesQuery reports whether the username contains the query, ignoring case
func (p *UserProfile) MatchesQuery(query string) bool {
	return strings.Contains(strings.ToLower(p.Username), strings.ToLower(query))
}
