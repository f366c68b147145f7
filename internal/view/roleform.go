package view

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/appstate"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
)

const (
	msgRoleCreated     = "角色创建成功"
	msgRoleUpdated     = "角色更新成功"
	msgCreateRoleError = "创建角色时出错"
	msgUpdateRoleError = "更新角色时出错"
	msgRoleNameEmpty   = "角色名称不能为空"
	msgGetRoleFailed   = "获取角色失败"
)

// RoleForm creates a role, or edits one after Load.
type RoleForm struct {
	base
	api RoleAPI
	id  *uuid.UUID

	Name             string
	Description      string
	RoleType         string
	LanguageStyle    string
	ResponseMode     string
	KnowledgeDomains Tags
	AllowedTopics    Tags
	ForbiddenTopics  Tags
}

func NewRoleForm(ctx context.Context, api RoleAPI) *RoleForm {
	return &RoleForm{base: newBase(ctx), api: api}
}

// RoleTypes are the types offered for selection. Any string is accepted.
func (f *RoleForm) RoleTypes() []string { return domainrole.Types }

func (f *RoleForm) IsEdit() bool { return f.id != nil }

// Load fetches role id, puts it in focus and switches the form to edit mode.
func (f *RoleForm) Load(id uuid.UUID) bool {
	defer f.busy()()
	env, err := f.api.Get(f.ctx, id)
	r, ok := settleData(&f.base, env, err, msgGetRoleFailed)
	if !ok {
		return false
	}
	f.Fill(*r)
	f.state.SetActiveRole(r)
	return true
}

// Fill copies r into the form and switches it to edit mode.
func (f *RoleForm) Fill(r domainrole.Role) {
	id := r.ID
	f.id = &id
	f.Name = r.Name
	f.Description = r.Description
	f.RoleType = r.RoleType
	f.LanguageStyle = r.LanguageStyle
	f.ResponseMode = r.ResponseMode
	f.KnowledgeDomains = append(Tags(nil), r.KnowledgeDomains...)
	f.AllowedTopics = append(Tags(nil), r.AllowedTopics...)
	f.ForbiddenTopics = append(Tags(nil), r.ForbiddenTopics...)
}

// Submit creates or updates the role with every field of the form.
func (f *RoleForm) Submit() (domainrole.Role, bool) {
	if strings.TrimSpace(f.Name) == "" {
		f.notify(msgRoleNameEmpty, appstate.SeverityWarning)
		return domainrole.Role{}, false
	}

	defer f.busy()()
	if f.id == nil {
		env, err := f.api.Create(f.ctx, domainrole.Create{
			Name:             f.Name,
			Description:      f.Description,
			RoleType:         f.RoleType,
			LanguageStyle:    f.LanguageStyle,
			ResponseMode:     f.ResponseMode,
			KnowledgeDomains: f.KnowledgeDomains,
			AllowedTopics:    f.AllowedTopics,
			ForbiddenTopics:  f.ForbiddenTopics,
		})
		r, ok := settleData(&f.base, env, err, msgCreateRoleError)
		if !ok {
			return domainrole.Role{}, false
		}
		f.notify(msgRoleCreated, appstate.SeveritySuccess)
		return *r, true
	}

	domains, allowed, forbidden := []string(f.KnowledgeDomains), []string(f.AllowedTopics), []string(f.ForbiddenTopics)
	env, err := f.api.Update(f.ctx, *f.id, domainrole.Update{
		Name:             &f.Name,
		Description:      &f.Description,
		RoleType:         &f.RoleType,
		LanguageStyle:    &f.LanguageStyle,
		ResponseMode:     &f.ResponseMode,
		KnowledgeDomains: &domains,
		AllowedTopics:    &allowed,
		ForbiddenTopics:  &forbidden,
	})
	r, ok := settleData(&f.base, env, err, msgUpdateRoleError)
	if !ok {
		return domainrole.Role{}, false
	}
	f.Fill(*r)
	f.notify(msgRoleUpdated, appstate.SeveritySuccess)
	return *r, true
}
