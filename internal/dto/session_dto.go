package dto

import (
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/pkg/gate"
	"edu-dashboard-be/pkg/session"
)

// GateResponse is what a gated endpoint answers instead of its payload.
type GateResponse struct {
	Loading  bool   `json:"loading,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type SessionResponse struct {
	SessionId   string           `json:"session_id"`
	UserId      string           `json:"user_id,omitempty"`
	Initialized bool             `json:"initialized"`
	Profile     *ProfileResponse `json:"profile"`
	Error       string           `json:"error,omitempty"`
	// Decisions holds the gate outcome per protected route.
	Decisions map[string]string `json:"decisions"`
}

var gatedRoutes = []gate.Target{gate.Dashboard, gate.ProfileSetup}

func NewProfileResponse(p *entity.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		Name:             p.Name,
		Standard:         p.Standard,
		Subjects:         append([]string{}, p.Subjects...),
		ProfileCompleted: p.ProfileCompleted,
		UpdatedAt:        p.UpdatedAt,
	}
}

func NewSessionResponse(snap session.Snapshot) SessionResponse {
	res := SessionResponse{
		SessionId:   snap.SessionID,
		UserId:      snap.UserID,
		Initialized: snap.Initialized,
		Profile:     NewProfileResponse(snap.Profile),
		Error:       snap.Error,
		Decisions:   make(map[string]string, len(gatedRoutes)),
	}
	for _, t := range gatedRoutes {
		res.Decisions[t.Name] = string(gate.Decide(snap.GateState(), t))
	}
	return res
}
