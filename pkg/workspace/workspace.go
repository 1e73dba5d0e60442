package workspace

import (
	"edu-dashboard-be/pkg/chat"
)

// Workspace is everything one browser session interacts with on the
// dashboard. The machine and the chat session guard their own state.
type Workspace struct {
	SessionID string
	UserID    string
	Machine   *Machine
	Chat      *chat.Session
}

// Close tears down in-flight chat work and any open overlay.
func (w *Workspace) Close() {
	w.Machine.Close()
	w.Chat.Close()
}
