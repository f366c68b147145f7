package view

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/appstate"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

const (
	msgTemplateCreated      = "模板创建成功"
	msgTemplateUpdated      = "模板更新成功"
	msgCreateTemplateError  = "创建模板时出错"
	msgUpdateTemplateError  = "更新模板时出错"
	msgTemplateNameEmpty    = "模板名称不能为空"
	msgTemplateContentEmpty = "模板内容不能为空"
	msgGetTemplateFailed    = "获取模板失败"
)

// Formats offered by the template form.
var Formats = []string{domainprompt.FormatOpenAI, domainprompt.FormatAnthropic}

// TemplateForm creates a template, or edits one after Load.
type TemplateForm struct {
	base
	api TemplateAPI
	id  *uuid.UUID

	Name            string
	Description     string
	Format          string
	RoleTypes       Tags
	TemplateContent string
	Variables       []domaintemplate.Variable
	IsDefault       bool
}

func NewTemplateForm(ctx context.Context, api TemplateAPI) *TemplateForm {
	return &TemplateForm{base: newBase(ctx), api: api, Format: domainprompt.FormatOpenAI}
}

func (f *TemplateForm) IsEdit() bool { return f.id != nil }

// Load fetches template id, puts it in focus and switches the form to edit mode.
func (f *TemplateForm) Load(id uuid.UUID) bool {
	defer f.busy()()
	env, err := f.api.Get(f.ctx, id)
	t, ok := settleData(&f.base, env, err, msgGetTemplateFailed)
	if !ok {
		return false
	}
	f.Fill(*t)
	f.state.SetActiveTemplate(t)
	return true
}

func (f *TemplateForm) Fill(t domaintemplate.Template) {
	id := t.ID
	f.id = &id
	f.Name = t.Name
	f.Description = t.Description
	f.Format = t.Format
	f.RoleTypes = append(Tags(nil), t.RoleTypes...)
	f.TemplateContent = t.TemplateContent
	f.Variables = slices.Clone(t.Variables)
	f.IsDefault = t.IsDefault
}

// AddVariable appends a variable. Names are trimmed, required and unique.
func (f *TemplateForm) AddVariable(name, source string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if slices.ContainsFunc(f.Variables, func(v domaintemplate.Variable) bool { return v.Name == name }) {
		return false
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = name
	}
	f.Variables = append(f.Variables, domaintemplate.Variable{Name: name, Source: source})
	return true
}

func (f *TemplateForm) RemoveVariable(name string) {
	f.Variables = slices.DeleteFunc(f.Variables, func(v domaintemplate.Variable) bool { return v.Name == name })
}

func (f *TemplateForm) Submit() (domaintemplate.Template, bool) {
	if strings.TrimSpace(f.Name) == "" {
		f.notify(msgTemplateNameEmpty, appstate.SeverityWarning)
		return domaintemplate.Template{}, false
	}
	if strings.TrimSpace(f.TemplateContent) == "" {
		f.notify(msgTemplateContentEmpty, appstate.SeverityWarning)
		return domaintemplate.Template{}, false
	}

	defer f.busy()()
	if f.id == nil {
		env, err := f.api.Create(f.ctx, domaintemplate.Create{
			Name:            f.Name,
			Description:     f.Description,
			Format:          f.Format,
			RoleTypes:       f.RoleTypes,
			TemplateContent: f.TemplateContent,
			Variables:       f.Variables,
			IsDefault:       f.IsDefault,
		})
		t, ok := settleData(&f.base, env, err, msgCreateTemplateError)
		if !ok {
			return domaintemplate.Template{}, false
		}
		f.notify(msgTemplateCreated, appstate.SeveritySuccess)
		return *t, true
	}

	roleTypes, vars := []string(f.RoleTypes), slices.Clone(f.Variables)
	if vars == nil {
		vars = []domaintemplate.Variable{}
	}
	env, err := f.api.Update(f.ctx, *f.id, domaintemplate.Update{
		Name:            &f.Name,
		Description:     &f.Description,
		Format:          &f.Format,
		RoleTypes:       &roleTypes,
		TemplateContent: &f.TemplateContent,
		Variables:       &vars,
		IsDefault:       &f.IsDefault,
	})
	t, ok := settleData(&f.base, env, err, msgUpdateTemplateError)
	if !ok {
		return domaintemplate.Template{}, false
	}
	f.Fill(*t)
	f.notify(msgTemplateUpdated, appstate.SeveritySuccess)
	return *t, true
}
