package session

// Plan is one scraped snapshot of the session table
type Plan struct {
	// Rooms are the room headings in page order; not de-duplicated
	Rooms []string `json:"rooms"`
	// ByTime maps a time-slot label (verbatim heading text, e.g. "08:00") to its sessions
	ByTime map[string][]*Session `json:"sessions"`
}

// NewPlan creates an empty plan
func NewPlan() *Plan {
	return &Plan{
		Rooms:  []string{},
		ByTime: make(map[string][]*Session),
	}
}

// IsEmpty reports whether the plan holds no time slots at all
func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.ByTime) == 0
}

// SessionCount returns the number of sessions across all slots
func (p *Plan) SessionCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, sessions := range p.ByTime {
		n += len(sessions)
	}
	return n
}

// WithCredentials builds a new plan whose sessions carry the credentials of their room.
// The receiver is left untouched.
func (p *Plan) WithCredentials(creds Credentials) *Plan {
	out := NewPlan()
	if p == nil {
		return out
	}
	out.Rooms = append(out.Rooms, p.Rooms...)

	for label, sessions := range p.ByTime {
		merged := make([]*Session, 0, len(sessions))
		for _, s := range sessions {
			base := s.withoutCredential()
			if cred, ok := creds.Lookup(s.Room); ok {
				base = base.WithCredential(cred)
			}
			merged = append(merged, base)
		}
		out.ByTime[label] = merged
	}
	return out
}
