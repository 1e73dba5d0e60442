package gate

import (
	"errors"

	"edu-dashboard-be/internal/entity"
)

var (
	ErrIncompleteProfile = errors.New("incomplete profile")
	ErrInvalidStandard   = errors.New("invalid class")
	ErrSubjectNotChosen  = errors.New("subject is not part of the profile")
)

// Alert texts shown to the student for the errors above.
const (
	IncompleteProfileMessage = "Incomplete profile. Please complete your profile setup."
	InvalidStandardMessage   = "Invalid class selected. Please update your profile."
)

var validStandards = map[string]struct{}{
	"9":  {},
	"10": {},
	"11": {},
	"12": {},
}

// ValidStandard accepts only the literal class values 9 through 12.
func ValidStandard(standard string) bool {
	_, ok := validStandards[standard]
	return ok
}

// CheckDashboardProfile is the stricter dashboard-level check. A stored
// profile can claim completion while individual fields are missing, so the
// flag alone is not trusted.
func CheckDashboardProfile(p *entity.Profile) error {
	if p == nil || !p.ProfileCompleted {
		return ErrIncompleteProfile
	}
	if p.Name == "" || p.Standard == "" || len(p.Subjects) == 0 {
		return ErrIncompleteProfile
	}
	if !ValidStandard(p.Standard) {
		return ErrInvalidStandard
	}
	return nil
}

// HasSubject reports whether subject is one the student picked.
func HasSubject(p *entity.Profile, subject string) bool {
	if p == nil {
		return false
	}
	for _, s := range p.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
