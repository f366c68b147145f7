package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/alanyang/llm-roles/internal/appstate"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
)

const (
	msgListRolesFailed   = "获取角色列表失败"
	msgSearchRolesFailed = "搜索角色失败"
	msgDeleteRoleFailed  = "删除角色失败"
)

// RolesView is the paginated role list with server-side search.
type RolesView struct {
	base
	api RoleAPI

	page       int
	pageSize   int
	searchText string

	mounted       bool
	roles         []domainrole.Role
	total         int
	pendingDelete *domainrole.Role
}

func NewRolesView(ctx context.Context, api RoleAPI) *RolesView {
	return &RolesView{base: newBase(ctx), api: api, pageSize: DefaultPageSize}
}

// Mount loads the first page.
func (v *RolesView) Mount() { v.fetch() }

// Show loads one page in a single call. A non-positive size keeps the current one.
func (v *RolesView) Show(page, size int) {
	if size > 0 {
		v.pageSize = size
	}
	if page >= 0 {
		v.page = page
	}
	v.fetch()
}

func (v *RolesView) Roles() []domainrole.Role { return v.roles }

// Total is the number of roles on the server, or of search hits after a search.
func (v *RolesView) Total() int { return v.total }

func (v *RolesView) Page() int { return v.page }

func (v *RolesView) PageSize() int { return v.pageSize }

func (v *RolesView) SearchText() string { return v.searchText }

func (v *RolesView) SetPage(page int) {
	if page < 0 || page == v.page {
		return
	}
	v.page = page
	v.refresh()
}

// SetPageSize changes the page size and goes back to the first page.
func (v *RolesView) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	v.pageSize = size
	v.page = 0
	v.refresh()
}

// SetSearchText only records the text. Search runs the query.
func (v *RolesView) SetSearchText(text string) { v.searchText = text }

// Search replaces the listed roles with the backend's matches. Blank text
// reloads the current page instead.
func (v *RolesView) Search() {
	query := strings.TrimSpace(v.searchText)
	if query == "" {
		v.fetch()
		return
	}

	defer v.busy()()
	env, err := v.api.Search(v.ctx, query)
	res, ok := settleData(&v.base, env, err, msgSearchRolesFailed)
	if !ok {
		return
	}
	v.roles = res.Roles
	v.total = res.Count
}

// Edit puts r in focus for the form.
func (v *RolesView) Edit(r domainrole.Role) { v.state.SetActiveRole(&r) }

// RequestDelete opens the confirmation for r. Nothing is sent yet.
func (v *RolesView) RequestDelete(r domainrole.Role) { v.pendingDelete = &r }

// PendingDelete is the role awaiting confirmation, or nil.
func (v *RolesView) PendingDelete() *domainrole.Role { return v.pendingDelete }

// CancelDelete discards the pending target without any call.
func (v *RolesView) CancelDelete() { v.pendingDelete = nil }

// ConfirmDelete deletes the pending role and reloads the current page.
func (v *RolesView) ConfirmDelete() {
	target := v.pendingDelete
	if target == nil {
		return
	}
	defer func() { v.pendingDelete = nil }()

	defer v.busy()()
	env, err := v.api.Delete(v.ctx, target.ID)
	if !settle(&v.base, env, err, msgDeleteRoleFailed) {
		return
	}
	v.notify(fmt.Sprintf(`角色 "%s" 已删除`, target.Name), appstate.SeveritySuccess)
	v.fetch()
}

// refresh refetches once the view is mounted. Before that, changes only
// configure the first fetch.
func (v *RolesView) refresh() {
	if v.mounted {
		v.fetch()
	}
}

func (v *RolesView) fetch() {
	v.mounted = true
	defer v.busy()()
	env, err := v.api.List(v.ctx, v.pageSize, v.page*v.pageSize)
	list, ok := settleData(&v.base, env, err, msgListRolesFailed)
	if !ok {
		return
	}
	v.roles = list.Roles
	v.total = list.Count
}
