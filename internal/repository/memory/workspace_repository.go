package memory

import (
	"time"

	"edu-dashboard-be/pkg/workspace"

	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps one live workspace per browser session. Idle
// workspaces expire and are closed on eviction.
type WorkspaceRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewWorkspaceRepository(ttl time.Duration) *WorkspaceRepository {
	c := cache.New(ttl, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if ws, ok := v.(*workspace.Workspace); ok {
			ws.Close()
		}
	})
	return &WorkspaceRepository{cache: c, ttl: ttl}
}

// Save stores ws and refreshes its expiry.
func (r *WorkspaceRepository) Save(ws *workspace.Workspace) {
	r.cache.Set(ws.SessionID, ws, cache.DefaultExpiration)
}

// Get also slides the expiry of a hit forward.
func (r *WorkspaceRepository) Get(sessionID string) (*workspace.Workspace, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	ws := x.(*workspace.Workspace)
	r.cache.Set(sessionID, ws, cache.DefaultExpiration)
	return ws, true
}

// Delete evicts the workspace, which closes it.
func (r *WorkspaceRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *WorkspaceRepository) Count() int {
	return r.cache.ItemCount()
}
