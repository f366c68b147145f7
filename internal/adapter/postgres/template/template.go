package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
	porttemplate "github.com/alanyang/llm-roles/internal/port/template"
)

var _ porttemplate.Repository = (*Repository)(nil)

// Repository implements port/template.Repository using Postgres.
// Variables are stored as a JSONB array.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const templateColumns = `id, name, description, format, role_types, template_content, variables,
	is_default, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, t domaintemplate.Template) (domaintemplate.Template, error) {
	query := `
		INSERT INTO prompt_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + templateColumns

	row := r.pool.QueryRow(ctx, query,
		t.ID, t.Name, t.Description, t.Format, t.RoleTypes, t.TemplateContent, variables(t),
		t.IsDefault, t.CreatedAt, t.UpdatedAt,
	)
	created, err := scanTemplate(row)
	if err != nil {
		return domaintemplate.Template{}, fmt.Errorf("inserting template: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domaintemplate.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM prompt_templates WHERE id = $1`
	t, err := scanTemplate(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintemplate.Template{}, porttemplate.ErrNotFound
		}
		return domaintemplate.Template{}, fmt.Errorf("querying template %s: %w", id, err)
	}
	return t, nil
}

func (r *Repository) Update(ctx context.Context, t domaintemplate.Template) (domaintemplate.Template, error) {
	query := `
		UPDATE prompt_templates SET name = $2, description = $3, format = $4, role_types = $5,
			template_content = $6, variables = $7, is_default = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + templateColumns

	row := r.pool.QueryRow(ctx, query,
		t.ID, t.Name, t.Description, t.Format, t.RoleTypes, t.TemplateContent, variables(t),
		t.IsDefault, t.UpdatedAt,
	)
	updated, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintemplate.Template{}, porttemplate.ErrNotFound
		}
		return domaintemplate.Template{}, fmt.Errorf("updating template %s: %w", t.ID, err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prompt_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting template %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return porttemplate.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]domaintemplate.Template, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prompt_templates`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting templates: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+templateColumns+` FROM prompt_templates ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	templates := []domaintemplate.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning template row: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, total, rows.Err()
}

// variables never sends NULL to the NOT NULL jsonb column.
func variables(t domaintemplate.Template) []domaintemplate.Variable {
	if t.Variables == nil {
		return []domaintemplate.Variable{}
	}
	return t.Variables
}

func scanTemplate(row pgx.Row) (domaintemplate.Template, error) {
	var t domaintemplate.Template
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.Format, &t.RoleTypes, &t.TemplateContent, &t.Variables,
		&t.IsDefault, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}
