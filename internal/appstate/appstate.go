// Package appstate holds the state shared by every view of one client session:
// the notification banner, the record in focus and the loading flag.
//
// A State is created at session start, carried in a context.Context and closed
// at session end. Setters are last-writer-wins; the mutex only keeps the Go
// memory model happy when a timer or a test goroutine touches the state.
package appstate

import (
	"context"
	"sync"
	"time"

	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

// AutoHideDelay is how long a notification stays visible.
const AutoHideDelay = 5 * time.Second

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

type Notification struct {
	Show     bool
	Message  string
	Severity Severity
}

// Snapshot is a copy of the whole state at one point in time.
type Snapshot struct {
	Notification   Notification
	ActiveRole     *domainrole.Role
	ActiveTemplate *domaintemplate.Template
	Loading        bool
}

type Option func(*State)

// WithAutoHideDelay overrides AutoHideDelay.
func WithAutoHideDelay(d time.Duration) Option {
	return func(s *State) { s.delay = d }
}

type State struct {
	mu       sync.Mutex
	snap     Snapshot
	delay    time.Duration
	timer    *time.Timer
	gen      uint64
	closed   bool
	watchers map[int]func(Snapshot)
	nextID   int
}

func New(opts ...Option) *State {
	s := &State{
		delay:    AutoHideDelay,
		snap:     Snapshot{Notification: Notification{Severity: SeverityInfo}},
		watchers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShowNotification makes message visible and schedules it to hide after the
// auto-hide delay. A later call re-arms the timer, so a newer banner is never
// hidden early by an older one. An empty severity means info.
func (s *State) ShowNotification(message string, severity Severity) {
	if severity == "" {
		severity = SeverityInfo
	}
	s.update(func(snap *Snapshot) {
		snap.Notification = Notification{Show: true, Message: message, Severity: severity}
		s.gen++
		gen := s.gen
		if s.timer != nil {
			s.timer.Stop()
		}
		s.timer = time.AfterFunc(s.delay, func() { s.expire(gen) })
	})
}

// HideNotification hides the banner and keeps its message and severity.
func (s *State) HideNotification() {
	s.update(func(snap *Snapshot) {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		snap.Notification.Show = false
	})
}

func (s *State) expire(gen uint64) {
	s.update(func(snap *Snapshot) {
		if gen != s.gen {
			return
		}
		s.timer = nil
		snap.Notification.Show = false
	})
}

func (s *State) SetActiveRole(r *domainrole.Role) {
	s.update(func(snap *Snapshot) { snap.ActiveRole = r })
}

func (s *State) SetActiveTemplate(t *domaintemplate.Template) {
	s.update(func(snap *Snapshot) { snap.ActiveTemplate = t })
}

// SetLoading is a plain setter. Overlapping requests are not counted: the
// first one to finish clears the flag even if another is still in flight.
func (s *State) SetLoading(loading bool) {
	s.update(func(snap *Snapshot) { snap.Loading = loading })
}

func (s *State) Notification() Notification { return s.Snapshot().Notification }

func (s *State) ActiveRole() *domainrole.Role { return s.Snapshot().ActiveRole }

func (s *State) ActiveTemplate() *domaintemplate.Template { return s.Snapshot().ActiveTemplate }

func (s *State) Loading() bool { return s.Snapshot().Loading }

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Watch calls fn with a snapshot after every change until the returned
// function is called. fn runs outside the state lock and may call back into s.
func (s *State) Watch(fn func(Snapshot)) (unwatch func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Close stops the pending auto-hide timer. Changes after Close still apply
// but no longer schedule timers or notify watchers.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	clear(s.watchers)
}

func (s *State) update(fn func(*Snapshot)) {
	s.mu.Lock()
	before := s.snap
	fn(&s.snap)
	if s.closed && s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	after := s.snap
	watchers := make([]func(Snapshot), 0, len(s.watchers))
	for _, w := range s.watchers {
		watchers = append(watchers, w)
	}
	s.mu.Unlock()

	if before == after {
		return
	}
	for _, w := range watchers {
		w(after)
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session state carried by ctx.
// It panics when ctx carries none: views must run inside a session.
func FromContext(ctx context.Context) *State {
	s, ok := ctx.Value(contextKey{}).(*State)
	if !ok || s == nil {
		panic("appstate: used outside of a session")
	}
	return s
}
