// Package gate decides, for every protected view, whether the caller may
// render it or must be sent elsewhere first.
package gate

import (
	"edu-dashboard-be/internal/entity"
)

// Decision is the outcome of evaluating a target view against session state.
type Decision string

const (
	Loading              Decision = "loading"
	RedirectLogin        Decision = "redirect_login"
	RedirectProfileSetup Decision = "redirect_profile_setup"
	RedirectDashboard    Decision = "redirect_dashboard"
	Allow                Decision = "allow"
)

// Target describes the view being guarded.
type Target struct {
	Name            string
	RequiresProfile bool
	IsProfileSetup  bool
}

var (
	Dashboard    = Target{Name: "dashboard", RequiresProfile: true}
	ProfileSetup = Target{Name: "profile-setup", IsProfileSetup: true}
	// Authenticated only needs a signed-in user.
	Authenticated = Target{Name: "authenticated"}
)

// State is the session view the gate reads from. It is a value copy, never a
// live reference into the session store.
type State struct {
	Initialized bool
	UserID      string
	Profile     *entity.Profile
}

// Decide is pure: same input, same answer, no side effects.
func Decide(s State, t Target) Decision {
	if !s.Initialized {
		return Loading
	}
	if s.UserID == "" {
		return RedirectLogin
	}
	completed := s.Profile != nil && s.Profile.ProfileCompleted
	if t.RequiresProfile && !completed {
		return RedirectProfileSetup
	}
	if t.IsProfileSetup && completed {
		return RedirectDashboard
	}
	return Allow
}

// RedirectPath maps a redirecting decision to the client route. Non-redirects
// return the empty string.
func RedirectPath(d Decision) string {
	switch d {
	case RedirectLogin:
		return "/login"
	case RedirectProfileSetup:
		return "/profile-setup"
	case RedirectDashboard:
		return "/dashboard"
	}
	return ""
}
