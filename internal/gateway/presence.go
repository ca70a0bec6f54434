package gateway

import (
	"sync"

	"github.com/Selva2621/plv/internal/model"
)

// presenceSet tracks which users are online, fed by user_online/user_offline
// events and replaced wholesale by active_users refreshes.
type presenceSet struct {
	mu    sync.RWMutex
	users map[string]model.ActiveUser
}

func newPresenceSet() *presenceSet {
	return &presenceSet{
		users: make(map[string]model.ActiveUser),
	}
}

func (p *presenceSet) setOnline(user model.ActiveUser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[user.UserID] = user
}

func (p *presenceSet) setOffline(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.users, userID)
}

func (p *presenceSet) replace(users []model.ActiveUser) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.users = make(map[string]model.ActiveUser, len(users))
	for _, u := range users {
		p.users[u.UserID] = u
	}
}

func (p *presenceSet) snapshot() []model.ActiveUser {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]model.ActiveUser, 0, len(p.users))
	for _, u := range p.users {
		out = append(out, u)
	}
	return out
}

func (p *presenceSet) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = make(map[string]model.ActiveUser)
}
