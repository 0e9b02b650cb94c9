package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/persistence"
)

// DefaultSession is used when a request carries no session id.
const DefaultSession = "default"

// Manager keeps one Designer per session and evicts idle ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Designer
	deps     Deps
	idleTTL  time.Duration
	cron     *cron.Cron
	now      func() time.Time
}

// NewManager creates a session manager; idleTTL <= 0 disables eviction.
func NewManager(deps Deps, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Designer),
		deps:     deps,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// SlotFor maps a session id to its persistence slot.
func SlotFor(session string) string {
	if session == "" || session == DefaultSession {
		return persistence.DefaultSlot
	}
	return persistence.DefaultSlot + ":" + session
}

// Get returns the designer for session, creating it on first use.
func (m *Manager) Get(session string) *Designer {
	if session == "" {
		session = DefaultSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.sessions[session]
	if !ok {
		d = NewDesigner(SlotFor(session), m.deps)
		m.sessions[session] = d
	}
	return d
}

// Lookup returns an existing designer without creating one.
func (m *Manager) Lookup(session string) (*Designer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.sessions[session]
	return d, ok
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Dispose removes and tears down one session.
func (m *Manager) Dispose(session string) bool {
	m.mu.Lock()
	d, ok := m.sessions[session]
	delete(m.sessions, session)
	m.mu.Unlock()
	if ok {
		d.Dispose()
	}
	return ok
}

// Sweep disposes sessions idle for longer than the TTL and returns how many were evicted.
func (m *Manager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var idle []*Designer
	for id, d := range m.sessions {
		if d.LastUsed().Before(cutoff) {
			idle = append(idle, d)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, d := range idle {
		d.Dispose()
	}
	return len(idle)
}

// Start schedules Sweep every minute.
func (m *Manager) Start() error {
	if m.idleTTL <= 0 {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		if n := m.Sweep(); n > 0 {
			log.Printf("[info] operation=sweep evicted=%d", n)
		}
	})
	if err != nil {
		return err
	}
	m.cron = c
	c.Start()
	log.Printf("Session sweeper started (idle ttl %s)", m.idleTTL)
	return nil
}

// Stop halts the sweeper and disposes every session.
func (m *Manager) Stop(ctx context.Context) {
	if m.cron != nil {
		select {
		case <-m.cron.Stop().Done():
		case <-ctx.Done():
		}
	}
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Designer)
	m.mu.Unlock()
	for _, d := range sessions {
		d.Dispose()
	}
}
