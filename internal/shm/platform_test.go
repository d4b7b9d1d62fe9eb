package shm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testName(t *testing.T) string {
	return fmt.Sprintf("/frame-ring-shm-test-%s", t.Name())
}

func TestCreateThenOpen(t *testing.T) {
	ctx := context.Background()
	name := testName(t)

	created, err := Map(ctx, MapOptions{Name: name, Size: 4096, Create: true})
	require.NoError(t, err)
	require.False(t, created.Empty())
	defer func() { _ = Unmap(created) }()

	opened, err := Map(ctx, MapOptions{Name: name, Size: 4096, Create: false})
	require.NoError(t, err)
	defer func() { _ = Unmap(opened) }()

	created.Addr[0] = 0xAB
	assert.Equal(t, byte(0xAB), opened.Addr[0])
}

func TestOpenMissingFails(t *testing.T) {
	ctx := context.Background()
	_, err := Map(ctx, MapOptions{Name: testName(t) + "-missing", Size: 4096, Create: false})
	assert.ErrorIs(t, err, ErrResourceOpenFailed)
}

func TestUnmapIdempotent(t *testing.T) {
	ctx := context.Background()
	r, err := Map(ctx, MapOptions{Name: testName(t), Size: 4096, Create: true})
	require.NoError(t, err)

	require.NoError(t, Unmap(r))
	assert.True(t, r.Empty())
	assert.NoError(t, Unmap(r)) // second call is a no-op
}

func TestTakeLeavesSourceEmpty(t *testing.T) {
	ctx := context.Background()
	r, err := Map(ctx, MapOptions{Name: testName(t), Size: 4096, Create: true})
	require.NoError(t, err)

	moved := r.Take()
	assert.True(t, r.Empty())
	assert.False(t, moved.Empty())
	assert.NoError(t, Unmap(r)) // no-op on moved-from handle
	assert.NoError(t, Unmap(moved))
}
