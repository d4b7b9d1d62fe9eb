package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/frame-ring/pkg/ring"
)

func TestOpenOrGetCachesByName(t *testing.T) {
	ctx := context.Background()
	name := fmt.Sprintf("/frame-ring-registry-test-%s", t.Name())

	producer, err := ring.Create(ctx, name, 4, 8, ring.Config{})
	require.NoError(t, err)
	defer producer.Close()

	reg := New()
	defer reg.CloseAll()

	first, err := reg.OpenOrGet(ctx, name, 4, 8, ring.Config{})
	require.NoError(t, err)
	second, err := reg.OpenOrGet(ctx, name, 4, 8, ring.Config{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, reg.Len())
}
