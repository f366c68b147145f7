package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	portrole "github.com/alanyang/llm-roles/internal/port/role"
)

var _ portrole.Repository = (*Repository)(nil)

// Repository implements port/role.Repository using Postgres.
// [LSP] Interchangeable with adapter/memory.RoleRepository.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const roleColumns = `id, name, description, role_type, language_style, response_mode,
	knowledge_domains, allowed_topics, forbidden_topics, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, role domainrole.Role) (domainrole.Role, error) {
	query := `
		INSERT INTO roles (` + roleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + roleColumns

	row := r.pool.QueryRow(ctx, query,
		role.ID, role.Name, role.Description, role.RoleType, role.LanguageStyle, role.ResponseMode,
		role.KnowledgeDomains, role.AllowedTopics, role.ForbiddenTopics, role.CreatedAt, role.UpdatedAt,
	)
	created, err := scanRole(row)
	if err != nil {
		return domainrole.Role{}, fmt.Errorf("inserting role: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domainrole.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`
	role, err := scanRole(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainrole.Role{}, portrole.ErrNotFound
		}
		return domainrole.Role{}, fmt.Errorf("querying role %s: %w", id, err)
	}
	return role, nil
}

func (r *Repository) Update(ctx context.Context, role domainrole.Role) (domainrole.Role, error) {
	query := `
		UPDATE roles SET name = $2, description = $3, role_type = $4, language_style = $5,
			response_mode = $6, knowledge_domains = $7, allowed_topics = $8, forbidden_topics = $9,
			updated_at = $10
		WHERE id = $1
		RETURNING ` + roleColumns

	row := r.pool.QueryRow(ctx, query,
		role.ID, role.Name, role.Description, role.RoleType, role.LanguageStyle, role.ResponseMode,
		role.KnowledgeDomains, role.AllowedTopics, role.ForbiddenTopics, role.UpdatedAt,
	)
	updated, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainrole.Role{}, portrole.ErrNotFound
		}
		return domainrole.Role{}, fmt.Errorf("updating role %s: %w", role.ID, err)
	}
	return updated, nil
}

// Delete removes the role; role_default_templates rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting role %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return portrole.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]domainrole.Role, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting roles: %w", err)
	}

	query := `SELECT ` + roleColumns + ` FROM roles ORDER BY created_at DESC, name LIMIT $1 OFFSET $2`
	roles, err := r.queryRoles(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing roles: %w", err)
	}
	return roles, total, nil
}

func (r *Repository) Search(ctx context.Context, query string) ([]domainrole.Role, error) {
	sql := `
		SELECT ` + roleColumns + ` FROM roles
		WHERE strpos(lower(name), lower($1)) > 0 OR strpos(lower(description), lower($1)) > 0
		ORDER BY name`
	roles, err := r.queryRoles(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("searching roles: %w", err)
	}
	return roles, nil
}

func (r *Repository) AddDefaultTemplate(ctx context.Context, roleID, templateID uuid.UUID) error {
	query := `
		INSERT INTO role_default_templates (role_id, template_id)
		VALUES ($1, $2)
		ON CONFLICT (role_id, template_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, roleID, templateID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return portrole.ErrNotFound
		}
		return fmt.Errorf("adding default template: %w", err)
	}
	return nil
}

func (r *Repository) RemoveDefaultTemplate(ctx context.Context, roleID, templateID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM role_default_templates WHERE role_id = $1 AND template_id = $2`, roleID, templateID)
	if err != nil {
		return fmt.Errorf("removing default template: %w", err)
	}
	return nil
}

func (r *Repository) DefaultTemplateIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking role %s: %w", roleID, err)
	}
	if !exists {
		return nil, portrole.ErrNotFound
	}

	rows, err := r.pool.Query(ctx,
		`SELECT template_id FROM role_default_templates WHERE role_id = $1 ORDER BY seq`, roleID)
	if err != nil {
		return nil, fmt.Errorf("listing default templates: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scanning default template ids: %w", err)
	}
	return ids, nil
}

func (r *Repository) queryRoles(ctx context.Context, query string, args ...any) ([]domainrole.Role, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []domainrole.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func scanRole(row pgx.Row) (domainrole.Role, error) {
	var role domainrole.Role
	err := row.Scan(
		&role.ID, &role.Name, &role.Description, &role.RoleType, &role.LanguageStyle, &role.ResponseMode,
		&role.KnowledgeDomains, &role.AllowedTopics, &role.ForbiddenTopics, &role.CreatedAt, &role.UpdatedAt,
	)
	return role, err
}
