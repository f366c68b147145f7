//go:build integration

package role_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgrole "github.com/alanyang/llm-roles/internal/adapter/postgres/role"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	portrole "github.com/alanyang/llm-roles/internal/port/role"
	"github.com/alanyang/llm-roles/internal/testutil"
)

func newRole(name string) domainrole.Role {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domainrole.Role{
		ID:            uuid.New(),
		Name:          name,
		Description:   "integration " + name,
		RoleType:      "teacher",
		AllowedTopics: []string{"math", "physics"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestRoleRepo_CreateGetUpdateDelete(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrole.New(pool)

	created, err := repo.Create(ctx, newRole("tutor-"+uuid.NewString()[:8]))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, []string{"math", "physics"}, got.AllowedTopics)
	assert.Nil(t, got.ForbiddenTopics)

	got.Description = "changed"
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Description)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, portrole.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, created.ID), portrole.ErrNotFound)
}

func TestRoleRepo_SearchAndList(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrole.New(pool)
	marker := uuid.NewString()[:8]

	_, err := repo.Create(ctx, newRole("Zeta-"+marker))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRole("alpha-"+marker))
	require.NoError(t, err)

	found, err := repo.Search(ctx, marker)
	require.NoError(t, err)
	require.Len(t, found, 2)

	_, err = repo.Create(ctx, newRole("rate 100%-"+marker))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRole("rate 1000-"+marker))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRole("snake_"+marker))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRole("snakex"+marker))
	require.NoError(t, err)

	found, err = repo.Search(ctx, "100%-"+marker)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "rate 100%-"+marker, found[0].Name)

	found, err = repo.Search(ctx, "snake_"+marker)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "snake_"+marker, found[0].Name)

	roles, total, err := repo.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
	assert.GreaterOrEqual(t, total, 2)
}

func TestRoleRepo_DefaultTemplates(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgrole.New(pool)
	r, err := repo.Create(ctx, newRole("defaults-"+uuid.NewString()[:8]))
	require.NoError(t, err)
	t1, t2 := uuid.New(), uuid.New()

	require.NoError(t, repo.AddDefaultTemplate(ctx, r.ID, t1))
	require.NoError(t, repo.AddDefaultTemplate(ctx, r.ID, t2))
	require.NoError(t, repo.AddDefaultTemplate(ctx, r.ID, t1))

	ids, err := repo.DefaultTemplateIDs(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{t1, t2}, ids)

	require.NoError(t, repo.RemoveDefaultTemplate(ctx, r.ID, t1))
	require.NoError(t, repo.RemoveDefaultTemplate(ctx, r.ID, t1))

	err = repo.AddDefaultTemplate(ctx, uuid.New(), t1)
	require.ErrorIs(t, err, portrole.ErrNotFound)
}
