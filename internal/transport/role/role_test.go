package role_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/llm-roles/internal/domain/envelope"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	"github.com/alanyang/llm-roles/internal/mocks"
	promptsvc "github.com/alanyang/llm-roles/internal/service/prompt"
	rolesvc "github.com/alanyang/llm-roles/internal/service/role"
	templatesvc "github.com/alanyang/llm-roles/internal/service/template"
	transportrole "github.com/alanyang/llm-roles/internal/transport/role"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T) (*gin.Engine, *mocks.MockRoleRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRoleRepository(ctrl)
	bus := mocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	templates := templatesvc.NewService(mocks.NewMockTemplateRepository(ctrl), bus)

	r := gin.New()
	transportrole.Register(r.Group("/api"), rolesvc.NewService(repo, bus), promptsvc.NewService(repo, templates, bus))
	return r, repo
}

func serve(r http.Handler, method, path, body string) envelope.Envelope[json.RawMessage] {
	req, _ := http.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope.Envelope[json.RawMessage]
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return env
}

// ── Error mapping ───────────────────────────────────────────────────────────

func TestListRoles_RepoErrorIs500Envelope(t *testing.T) {
	r, repo := newRouter(t)
	repo.EXPECT().List(gomock.Any(), 100, 0).Return(nil, 0, errors.New("db down"))

	env := serve(r, http.MethodGet, "/api/roles", "")
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusInternalServerError, env.Status)
	assert.Contains(t, env.Message, "获取角色列表失败")
}

func TestListRoles_PassesPaging(t *testing.T) {
	r, repo := newRouter(t)
	repo.EXPECT().List(gomock.Any(), 10, 20).Return([]domainrole.Role{}, 25, nil)

	env := serve(r, http.MethodGet, "/api/roles?limit=10&offset=20", "")
	require.True(t, env.Success)

	var list domainrole.List
	require.NoError(t, json.Unmarshal(*env.Data, &list))
	assert.Equal(t, 25, list.Count)
	assert.Equal(t, 20, list.Offset)
}

func TestGetRole_MalformedIDIsNotFound(t *testing.T) {
	r, _ := newRouter(t)

	env := serve(r, http.MethodGet, "/api/roles/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "角色不存在: not-a-uuid", env.Message)
}

func TestDeleteRole_NotFound(t *testing.T) {
	r, repo := newRouter(t)
	id := uuid.New()
	repo.EXPECT().Delete(gomock.Any(), id).Return(rolesvc.ErrNotFound)

	env := serve(r, http.MethodDelete, "/api/roles/"+id.String(), "")
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestPreviewPrompt_TemplateIDRequired(t *testing.T) {
	r, _ := newRouter(t)
	path := "/api/roles/" + uuid.NewString() + "/preview-prompt"

	env := serve(r, http.MethodPost, path, `{"format":"openai"}`)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusUnprocessableEntity, env.Status)
	assert.Contains(t, env.Message, "TemplateID")

	env = serve(r, http.MethodPost, path, `{"template_id":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, env.Status)
}

func TestPreviewPrompt_UnknownRole(t *testing.T) {
	r, repo := newRouter(t)
	id := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), id).Return(domainrole.Role{}, rolesvc.ErrNotFound).AnyTimes()

	env := serve(r, http.MethodPost, "/api/roles/"+id.String()+"/preview-prompt", `{"template_id":"`+uuid.NewString()+`"}`)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestUpdateRole_BlankName(t *testing.T) {
	r, _ := newRouter(t)

	env := serve(r, http.MethodPut, "/api/roles/"+uuid.NewString(), `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}
