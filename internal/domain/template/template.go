package template

import (
	"time"

	"github.com/google/uuid"
)

// Variable describes how one placeholder is populated: Source names a role field.
type Variable struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
}

// Template is a reusable prompt skeleton with named substitution variables.
// Default templates cannot be deleted.
type Template struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Format          string     `json:"format,omitempty"`
	RoleTypes       []string   `json:"role_types,omitempty"`
	TemplateContent string     `json:"template_content"`
	Variables       []Variable `json:"variables,omitempty"`
	IsDefault       bool       `json:"is_default"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Create struct {
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Format          string     `json:"format,omitempty"`
	RoleTypes       []string   `json:"role_types,omitempty"`
	TemplateContent string     `json:"template_content"`
	Variables       []Variable `json:"variables,omitempty"`
	IsDefault       bool       `json:"is_default,omitempty"`
}

// Update is a partial projection of Create; nil fields are left unchanged.
type Update struct {
	Name            *string     `json:"name,omitempty"`
	Description     *string     `json:"description,omitempty"`
	Format          *string     `json:"format,omitempty"`
	RoleTypes       *[]string   `json:"role_types,omitempty"`
	TemplateContent *string     `json:"template_content,omitempty"`
	Variables       *[]Variable `json:"variables,omitempty"`
	IsDefault       *bool       `json:"is_default,omitempty"`
}

func (u Update) Apply(t *Template) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Format != nil {
		t.Format = *u.Format
	}
	if u.RoleTypes != nil {
		t.RoleTypes = *u.RoleTypes
	}
	if u.TemplateContent != nil {
		t.TemplateContent = *u.TemplateContent
	}
	if u.Variables != nil {
		t.Variables = *u.Variables
	}
	if u.IsDefault != nil {
		t.IsDefault = *u.IsDefault
	}
}

// AppliesTo reports whether the template is scoped to the given role type.
func (t Template) AppliesTo(roleType string) bool {
	if roleType == "" {
		return false
	}
	for _, rt := range t.RoleTypes {
		if rt == roleType {
			return true
		}
	}
	return false
}

type List struct {
	Templates []Template `json:"templates"`
	Count     int        `json:"count"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// RoleDefaults lists the templates registered as defaults for one role.
type RoleDefaults struct {
	Templates []Template `json:"templates"`
	Count     int        `json:"count"`
	RoleID    uuid.UUID  `json:"role_id"`
}
