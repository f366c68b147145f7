package appstate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/llm-roles/internal/appstate"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

const delay = 30 * time.Millisecond

// ── Notifications ───────────────────────────────────────────────────────────

func TestShowNotification_AutoHides(t *testing.T) {
	s := appstate.New(appstate.WithAutoHideDelay(delay))
	t.Cleanup(s.Close)

	s.ShowNotification("x", appstate.SeverityError)
	assert.Equal(t, appstate.Notification{Show: true, Message: "x", Severity: appstate.SeverityError}, s.Notification())

	assert.Eventually(t, func() bool { return !s.Notification().Show }, time.Second, 5*time.Millisecond)
	n := s.Notification()
	assert.Equal(t, "x", n.Message, "message survives hiding")
	assert.Equal(t, appstate.SeverityError, n.Severity)
}

func TestShowNotification_DefaultSeverityIsInfo(t *testing.T) {
	s := appstate.New()
	t.Cleanup(s.Close)

	s.ShowNotification("hello", "")
	assert.Equal(t, appstate.SeverityInfo, s.Notification().Severity)
	assert.Equal(t, appstate.AutoHideDelay, 5*time.Second)
}

func TestShowNotification_LaterCallResetsTimer(t *testing.T) {
	s := appstate.New(appstate.WithAutoHideDelay(100 * time.Millisecond))
	t.Cleanup(s.Close)

	s.ShowNotification("first", appstate.SeverityInfo)
	time.Sleep(60 * time.Millisecond)
	s.ShowNotification("second", appstate.SeveritySuccess)
	time.Sleep(60 * time.Millisecond)

	n := s.Notification()
	assert.True(t, n.Show, "the first timer must not hide the second banner")
	assert.Equal(t, "second", n.Message)

	assert.Eventually(t, func() bool { return !s.Notification().Show }, time.Second, 5*time.Millisecond)
}

func TestHideNotification_PreservesMessage(t *testing.T) {
	s := appstate.New()
	t.Cleanup(s.Close)

	s.ShowNotification("saved", appstate.SeveritySuccess)
	s.HideNotification()
	assert.Equal(t, appstate.Notification{Show: false, Message: "saved", Severity: appstate.SeveritySuccess}, s.Notification())
}

func TestClose_StopsPendingTimer(t *testing.T) {
	s := appstate.New(appstate.WithAutoHideDelay(delay))
	s.ShowNotification("x", appstate.SeverityInfo)
	s.Close()

	time.Sleep(3 * delay)
	assert.True(t, s.Notification().Show)
}

// ── Setters ─────────────────────────────────────────────────────────────────

func TestSetters(t *testing.T) {
	s := appstate.New()
	t.Cleanup(s.Close)

	r := &domainrole.Role{Name: "Tutor"}
	tmpl := &domaintemplate.Template{Name: "Alpha"}
	s.SetActiveRole(r)
	s.SetActiveTemplate(tmpl)
	s.SetLoading(true)

	assert.Same(t, r, s.ActiveRole())
	assert.Same(t, tmpl, s.ActiveTemplate())
	assert.True(t, s.Loading())

	s.SetActiveRole(nil)
	assert.Nil(t, s.ActiveRole())
}

// Overlapping requests are not counted; the first to finish clears the flag.
func TestSetLoading_NoReferenceCounting(t *testing.T) {
	s := appstate.New()
	t.Cleanup(s.Close)

	s.SetLoading(true)  // request A
	s.SetLoading(true)  // request B
	s.SetLoading(false) // A finishes
	assert.False(t, s.Loading())
}

func TestWatch(t *testing.T) {
	s := appstate.New()
	t.Cleanup(s.Close)

	var mu sync.Mutex
	var seen []bool
	unwatch := s.Watch(func(snap appstate.Snapshot) {
		mu.Lock()
		seen = append(seen, snap.Loading)
		mu.Unlock()
	})

	s.SetLoading(true)
	s.SetLoading(true)
	s.SetLoading(false)
	unwatch()
	s.SetLoading(true)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, seen)
}

// ── Context ─────────────────────────────────────────────────────────────────

func TestContext(t *testing.T) {
	s := appstate.New()
	t.Cleanup(s.Close)

	ctx := appstate.NewContext(context.Background(), s)
	require.Same(t, s, appstate.FromContext(ctx))
}

func TestFromContext_PanicsOutsideSession(t *testing.T) {
	assert.PanicsWithValue(t, "appstate: used outside of a session", func() {
		appstate.FromContext(context.Background())
	})
}
