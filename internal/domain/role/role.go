package role

import (
	"time"

	"github.com/google/uuid"
)

// Types offered by the role form. The backend accepts any string.
var Types = []string{"advisor", "assistant", "teacher", "specialist", "consultant"}

// Role is a named persona configuration consumed by the prompt pipeline.
type Role struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	RoleType         string    `json:"role_type,omitempty"`
	LanguageStyle    string    `json:"language_style,omitempty"`
	ResponseMode     string    `json:"response_mode,omitempty"`
	KnowledgeDomains []string  `json:"knowledge_domains,omitempty"`
	AllowedTopics    []string  `json:"allowed_topics,omitempty"`
	ForbiddenTopics  []string  `json:"forbidden_topics,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Create struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	RoleType         string   `json:"role_type,omitempty"`
	LanguageStyle    string   `json:"language_style,omitempty"`
	ResponseMode     string   `json:"response_mode,omitempty"`
	KnowledgeDomains []string `json:"knowledge_domains,omitempty"`
	AllowedTopics    []string `json:"allowed_topics,omitempty"`
	ForbiddenTopics  []string `json:"forbidden_topics,omitempty"`
}

// Update is a partial projection of Create. A nil field is left unchanged;
// it never means "clear this field".
type Update struct {
	Name             *string   `json:"name,omitempty"`
	Description      *string   `json:"description,omitempty"`
	RoleType         *string   `json:"role_type,omitempty"`
	LanguageStyle    *string   `json:"language_style,omitempty"`
	ResponseMode     *string   `json:"response_mode,omitempty"`
	KnowledgeDomains *[]string `json:"knowledge_domains,omitempty"`
	AllowedTopics    *[]string `json:"allowed_topics,omitempty"`
	ForbiddenTopics  *[]string `json:"forbidden_topics,omitempty"`
}

// Apply copies every present field of u onto r.
func (u Update) Apply(r *Role) {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.RoleType != nil {
		r.RoleType = *u.RoleType
	}
	if u.LanguageStyle != nil {
		r.LanguageStyle = *u.LanguageStyle
	}
	if u.ResponseMode != nil {
		r.ResponseMode = *u.ResponseMode
	}
	if u.KnowledgeDomains != nil {
		r.KnowledgeDomains = *u.KnowledgeDomains
	}
	if u.AllowedTopics != nil {
		r.AllowedTopics = *u.AllowedTopics
	}
	if u.ForbiddenTopics != nil {
		r.ForbiddenTopics = *u.ForbiddenTopics
	}
}

type List struct {
	Roles  []Role `json:"roles"`
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type SearchResult struct {
	Roles []Role `json:"roles"`
	Count int    `json:"count"`
	Query string `json:"query"`
}

// Fields exposes the role as a flat name → value map for template variable sources.
// Optional attributes are present only when set, so their placeholders survive rendering.
func (r Role) Fields() map[string]any {
	f := map[string]any{
		"id":          r.ID.String(),
		"name":        r.Name,
		"description": r.Description,
		"role_type":   r.RoleType,
	}
	if r.LanguageStyle != "" {
		f["language_style"] = r.LanguageStyle
	}
	if r.ResponseMode != "" {
		f["response_mode"] = r.ResponseMode
	}
	if r.KnowledgeDomains != nil {
		f["knowledge_domains"] = r.KnowledgeDomains
	}
	if r.AllowedTopics != nil {
		f["allowed_topics"] = r.AllowedTopics
	}
	if r.ForbiddenTopics != nil {
		f["forbidden_topics"] = r.ForbiddenTopics
	}
	return f
}
