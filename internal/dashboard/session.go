package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/launch-dashboard/internal/monitoring"
	"github.com/sells-group/launch-dashboard/internal/view"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = eris.New("dashboard: session not found")

// Session is one client's dashboard with its own control values.
type Session struct {
	ID string `json:"id"`
	*Dispatcher
}

// Sessions keeps dashboards in an expiring cache.
type Sessions struct {
	cache    *cache.Cache
	ttl      time.Duration
	builder  *Builder
	defaults Controls
	metrics  *monitoring.Collector
}

// NewSessions creates a session store. Idle sessions expire after ttl.
func NewSessions(builder *Builder, defaults Controls, ttl time.Duration, metrics *monitoring.Collector) *Sessions {
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, _ any) {
		metrics.SessionClosed()
		zap.L().Debug("dashboard session closed", zap.String("session", id))
	})
	return &Sessions{cache: c, ttl: ttl, builder: builder, defaults: defaults, metrics: metrics}
}

// Create starts a session with the default controls.
func (s *Sessions) Create() *Session {
	sess := &Session{
		ID:         uuid.NewString(),
		Dispatcher: NewDispatcher(s.builder, s.defaults),
	}
	s.cache.Set(sess.ID, sess, s.ttl)
	s.metrics.SessionOpened()
	zap.L().Debug("dashboard session opened", zap.String("session", sess.ID))
	return sess
}

// Get returns a live session and extends its lifetime.
func (s *Sessions) Get(id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, eris.Wrapf(ErrSessionNotFound, "session %s", id)
	}
	sess := v.(*Session)
	s.cache.Set(id, sess, s.ttl)
	return sess, nil
}

// Update dispatches events to a session and returns the recomputed figures.
func (s *Sessions) Update(id string, events ...Event) ([]view.Figure, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return sess.Dispatch(events...), nil
}

// Close ends a session.
func (s *Sessions) Close(id string) error {
	if _, ok := s.cache.Get(id); !ok {
		return eris.Wrapf(ErrSessionNotFound, "session %s", id)
	}
	s.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.ItemCount()
}
