package todo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepo 记录写操作次数，其余委托给真实存储
type countingRepo struct {
	Repository
	creates int
	updates int
}

func (r *countingRepo) Create(ctx context.Context, title string) (Todo, error) {
	r.creates++
	return r.Repository.Create(ctx, title)
}

func (r *countingRepo) Update(ctx context.Context, id int64, patch Patch) (Todo, error) {
	r.updates++
	return r.Repository.Update(ctx, id, patch)
}

func TestServiceCreateTrimsTitle(t *testing.T) {
	svc := NewService(newTestStore(t))
	ctx := context.Background()

	todo, err := svc.Create(ctx, "  Buy milk \t")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.False(t, todo.Completed)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, todo.ID, list[0].ID)
	assert.Equal(t, "Buy milk", list[0].Title)
}

func TestServiceCreateRejectsBlankTitle(t *testing.T) {
	repo := &countingRepo{Repository: newTestStore(t)}
	svc := NewService(repo)

	for _, title := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(context.Background(), title)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Title is required", verr.Message)
	}
	assert.Zero(t, repo.creates)
}

func TestServiceUpdateValidation(t *testing.T) {
	repo := &countingRepo{Repository: newTestStore(t)}
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Read")
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, Patch{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "No fields to update", verr.Message)

	_, err = svc.Update(ctx, created.ID, Patch{Title: stringPtr("   ")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Title cannot be empty", verr.Message)
	assert.Zero(t, repo.updates)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read", got.Title)
}

func TestServiceUpdateTrimsAndMerges(t *testing.T) {
	svc := NewService(newTestStore(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, "Read")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, Patch{Title: stringPtr("  Read a book  ")})
	require.NoError(t, err)
	assert.Equal(t, "Read a book", updated.Title)
	assert.False(t, updated.Completed)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Time.Equal(created.Time))
}

func TestServiceNotFound(t *testing.T) {
	svc := NewService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.Update(ctx, 42, Patch{Completed: boolPtr(true)})
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.ErrorIs(t, svc.Delete(ctx, 42), ErrNotFound)
}
