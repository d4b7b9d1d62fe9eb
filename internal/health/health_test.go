package health

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/frame-ring/pkg/ring"
)

func TestLivenessCheck(t *testing.T) {
	ctx := context.Background()
	name := fmt.Sprintf("/frame-ring-health-test-%s", t.Name())
	r, err := ring.Create(ctx, name, 4, 8, ring.Config{})
	require.NoError(t, err)

	check := LivenessCheck(r)
	assert.NoError(t, check())

	require.NoError(t, r.Close())
	assert.Error(t, check())
}

func TestReadinessCheckBelowMinRate(t *testing.T) {
	ctx := context.Background()
	name := fmt.Sprintf("/frame-ring-health-test-%s", t.Name())
	r, err := ring.Create(ctx, name, 4, 8, ring.Config{})
	require.NoError(t, err)
	defer r.Close()

	check := ReadinessCheck(r, 1_000_000, 5*time.Millisecond)
	assert.Error(t, check()) // nothing published, rate is 0
}
