package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/llm-roles/internal/adapter/memory"
	promptsvc "github.com/alanyang/llm-roles/internal/service/prompt"
	rolesvc "github.com/alanyang/llm-roles/internal/service/role"
	templatesvc "github.com/alanyang/llm-roles/internal/service/template"
	"github.com/alanyang/llm-roles/internal/transport"
	mcptransport "github.com/alanyang/llm-roles/internal/transport/mcp"
)

// NewServer starts the full HTTP API over in-memory adapters.
// The server is closed when the test ends.
func NewServer(t *testing.T, opts transport.Options) *httptest.Server {
	t.Helper()
	srv, _ := NewRecordedServer(t, opts)
	return srv
}

// NewRecordedServer is NewServer plus a log of every request it received.
func NewRecordedServer(t *testing.T, opts transport.Options) (*httptest.Server, *RequestLog) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	bus := memory.NewEventBus()
	roleRepo := memory.NewRoleRepository()
	roles := rolesvc.NewService(roleRepo, bus)
	templates := templatesvc.NewService(memory.NewTemplateRepository(), bus)
	prompts := promptsvc.NewService(roleRepo, templates, bus)
	r := transport.NewRouter(ctx, opts, roles, templates, prompts, mcptransport.New(prompts), bus)

	log := &RequestLog{}
	srv := httptest.NewServer(log.Wrap(r))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, log
}

// RequestLog records "METHOD /path?query" for each request passing through Wrap.
type RequestLog struct {
	mu   sync.Mutex
	reqs []string
}

func (l *RequestLog) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			entry += "?" + r.URL.RawQuery
		}
		l.mu.Lock()
		l.reqs = append(l.reqs, entry)
		l.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (l *RequestLog) Requests() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.reqs...)
}

func (l *RequestLog) Reset() {
	l.mu.Lock()
	l.reqs = nil
	l.mu.Unlock()
}

// Token mints an HS256 bearer token accepted by a server built with the same secret.
func Token(t *testing.T, secret string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}
