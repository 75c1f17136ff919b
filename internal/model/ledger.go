package model

// Ledger tracks moderation state per username
type Ledger struct {
	Banned     map[string]int64 `json:"banned"`     // ban expiry, epoch millis
	Violations map[string]int   `json:"violations"` // offenses since the last ban expired
}

// NewLedger returns an empty ledger
func NewLedger() Ledger {
	return Ledger{
		Banned:     make(map[string]int64),
		Violations: make(map[string]int),
	}
}

// Rename moves all ledger entries from one username to another
func (l *Ledger) Rename(from, to string) {
	if until, ok := l.Banned[from]; ok {
		l.Banned[to] = until
		delete(l.Banned, from)
	}
	if count, ok := l.Violations[from]; ok {
		l.Violations[to] = count
		delete(l.Violations, from)
	}
}
