package entity

import "time"

type Profile struct {
	UserId           string
	Name             string
	Standard         string
	Subjects         []string
	ProfileCompleted bool
	UpdatedAt        *time.Time
}

// Clone returns a deep copy so snapshots handed out by the session store
// cannot be mutated by their readers.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Subjects = append([]string(nil), p.Subjects...)
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
