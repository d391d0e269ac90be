package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	v, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, v)

	buf := []byte("tok")
	require.NoError(t, r.Set(ctx, "session.token", buf))
	buf[0] = 'X'
	v, _ = r.Get(ctx, "session.token")
	assert.Equal(t, []byte("tok"), v, "stored values must be copied")

	require.NoError(t, r.SetMany(ctx, map[string][]byte{"a": {1}, "b": {2}}))
	m, _ := r.List(ctx)
	assert.Len(t, m, 3)

	require.NoError(t, r.DeleteMany(ctx, "a", "b"))
	require.NoError(t, r.Delete(ctx, "session.token"))
	m, _ = r.List(ctx)
	assert.Empty(t, m)

	require.NoError(t, r.Set(ctx, "c", []byte{3}))
	require.NoError(t, r.Clear(ctx))
	m, _ = r.List(ctx)
	assert.Empty(t, m)
}
