package model

// Snapshot is the complete shared state of the server
type Snapshot struct {
	Users    map[string]*UserProfile
	Comments []Comment
	Messages []PrivateMessage
	Requests []FriendRequest
	Ledger   Ledger
}

// NewSnapshot returns an empty snapshot with all collections initialised
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:    make(map[string]*UserProfile),
		Comments: []Comment{},
		Messages: []PrivateMessage{},
		Requests: []FriendRequest{},
		Ledger:   NewLedger(),
	}
}

// Normalize replaces nil collections with empty ones
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = make(map[string]*UserProfile)
	}
	for name, p := range s.Users {
		if p == nil {
			delete(s.Users, name)
			continue
		}
		if p.HighScores == nil {
			p.HighScores = make(map[string]int)
		}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	if s.Messages == nil {
		s.Messages = []PrivateMessage{}
	}
	if s.Requests == nil {
		s.Requests = []FriendRequest{}
	}
	if s.Ledger.Banned == nil {
		s.Ledger.Banned = make(map[string]int64)
	}
	if s.Ledger.Violations == nil {
		s.Ledger.Violations = make(map[string]int)
	}
}

// Clone returns a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Users:    make(map[string]*UserProfile, len(s.Users)),
		Comments: append([]Comment{}, s.Comments...),
		Messages: append([]PrivateMessage{}, s.Messages...),
		Requests: append([]FriendRequest{}, s.Requests...),
		Ledger: Ledger{
			Banned:     make(map[string]int64, len(s.Ledger.Banned)),
			Violations: make(map[string]int, len(s.Ledger.Violations)),
		},
	}
	for name, p := range s.Users {
		cp := p.Clone()
		out.Users[name] = &cp
	}
	for i := range out.Comments {
		if c := s.Comments[i].AvatarURL; c != nil {
			avatar := *c
			out.Comments[i].AvatarURL = &avatar
		}
	}
	for k, v := range s.Ledger.Banned {
		out.Ledger.Banned[k] = v
	}
	for k, v := range s.Ledger.Violations {
		out.Ledger.Violations[k] = v
	}
	return out
}
