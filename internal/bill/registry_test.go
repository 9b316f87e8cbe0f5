package bill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry(time.Hour)

	id, s := r.Create()
	require.NotEmpty(t, id)

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistry_Expiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := NewRegistry(10 * time.Minute)
	r.now = func() time.Time { return now }

	var evicted int
	r.OnEvict = func(n int) { evicted += n }

	idle, _ := r.Create()
	active, _ := r.Create()

	now = now.Add(8 * time.Minute)
	_, err := r.Get(active)
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(idle)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(active)
	assert.NoError(t, err)
}

func TestRegistry_GetEvictsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := NewRegistry(time.Minute)
	r.now = func() time.Time { return now }

	id, _ := r.Create()
	now = now.Add(2 * time.Minute)

	_, err := r.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, r.Len())
}
