//go:build integration

package template_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgtemplate "github.com/alanyang/llm-roles/internal/adapter/postgres/template"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
	porttemplate "github.com/alanyang/llm-roles/internal/port/template"
	"github.com/alanyang/llm-roles/internal/testutil"
)

func TestTemplateRepo_RoundTripVariables(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgtemplate.New(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	created, err := repo.Create(ctx, domaintemplate.Template{
		ID:              uuid.New(),
		Name:            "tmpl-" + uuid.NewString()[:8],
		Format:          "openai",
		TemplateContent: "Hi {name}",
		Variables:       []domaintemplate.Variable{{Name: "name", Source: "name"}},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Variables, 1)
	assert.Equal(t, "name", got.Variables[0].Source)

	got.IsDefault = true
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	list, total, err := repo.List(ctx, 1000, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 1)
	assert.NotEmpty(t, list)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, porttemplate.ErrNotFound)
}
