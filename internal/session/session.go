// Package session keeps per-visitor navigation and booking state in
// memory.  Each session owns its own navigation.State and
// booking.Workflow; nothing is shared between sessions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/model"
	"github.com/iliyamo/raveworks-booking/internal/navigation"
	"github.com/iliyamo/raveworks-booking/internal/view"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownSection is returned when a select gesture names a section
	// outside the catalog.
	ErrUnknownSection = errors.New("unknown section")
)

// Content is the catalog surface sessions need.
type Content interface {
	view.Content
	Normalize(raw string) model.SectionID
	Service(id int) (model.ServiceOffering, bool)
}

// Session is one visitor's overlay and booking attempt.  Gestures that
// touch both the overlay and the workflow hold mu across both, so no
// reader sees one changed without the other.  mu is always taken before
// the workflow's own lock.
type Session struct {
	ID string

	mu       sync.Mutex
	nav      *navigation.State
	lastSeen time.Time

	wf      *booking.Workflow
	content Content
}

// Select opens the overlay on the named section.  Aliases are accepted.
func (s *Session) Select(raw string) error {
	id := s.content.Normalize(raw)
	if !id.Valid() {
		return ErrUnknownSection
	}
	s.mu.Lock()
	s.nav.Select(id)
	s.mu.Unlock()
	return nil
}

// Close hides the overlay and abandons any booking attempt.  It is
// rejected with booking.ErrBusy while a submission is in flight.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wf.Reset(); err != nil {
		return err
	}
	s.nav.Close()
	return nil
}

// Escape handles the escape key.  It ends in the same state as Close.
func (s *Session) Escape() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wf.Reset(); err != nil {
		return err
	}
	s.nav.Cancel()
	return nil
}

// BeginBooking starts a booking attempt for serviceID and brings the
// booking form into view.  It works from any section.
func (s *Session) BeginBooking(serviceID int) (booking.Draft, error) {
	svc, ok := s.content.Service(serviceID)
	if !ok {
		return booking.Draft{}, booking.ErrUnknownService
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.wf.Begin(svc)
	if err != nil {
		return booking.Draft{}, err
	}
	s.nav.Select(model.SectionBooking)
	return d, nil
}

// UpdateFields applies several field edits.  Either all of them are
// applied or none is.
func (s *Session) UpdateFields(fields map[string]string) error {
	return s.wf.UpdateFields(fields)
}

// Submit runs the booking submission.  The session lock is not held, so
// View stays responsive while the payment provider is called.
func (s *Session) Submit(ctx context.Context, card booking.CardDetails) (booking.Outcome, error) {
	return s.wf.Submit(ctx, card)
}

// CancelBooking discards the booking draft.  The overlay stays open.
func (s *Session) CancelBooking() error {
	return s.wf.Cancel()
}

// Workflow exposes the session's booking workflow.
func (s *Session) Workflow() *booking.Workflow { return s.wf }

// View returns what the overlay should display now.
func (s *Session) View() view.Display {
	s.mu.Lock()
	nav, wf := s.nav.Snapshot(), s.wf.Snapshot()
	s.mu.Unlock()
	return view.Select(nav, wf, s.content)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager creates, finds and expires sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	content     Content
	newWorkflow func() *booking.Workflow
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIdleTTL sets how long an untouched session lives.  Zero disables
// expiry.
func WithIdleTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// WithClock overrides the clock used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager returns an empty Manager.  newWorkflow is called once per
// session.
func NewManager(content Content, newWorkflow func() *booking.Workflow, opts ...Option) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		content:     content,
		newWorkflow: newWorkflow,
		ttl:         30 * time.Minute,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new session with a closed overlay and an idle
// workflow.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		nav:      navigation.New(),
		lastSeen: m.now(),
		wf:       m.newWorkflow(),
		content:  m.content,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Delete removes the session.  Deleting an unknown id returns
// ErrSessionNotFound.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.  Sessions with a submission in flight are kept.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().After(cutoff) || s.wf.State() == booking.StateSubmitting {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				m.logger.Debug("expired sessions", zap.Int("count", n))
			}
		}
	}
}
