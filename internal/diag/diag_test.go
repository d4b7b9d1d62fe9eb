package diag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/frame-ring/pkg/ring"
)

func TestCheckAvailableMemoryRejectsHugeRequest(t *testing.T) {
	ctx := context.Background()
	err := CheckAvailableMemory(ctx, ^uint64(0)) // effectively infinite
	assert.Error(t, err)
}

func TestCheckAvailableMemoryAllowsSmallRequest(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, CheckAvailableMemory(ctx, 4096))
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	name := fmt.Sprintf("/frame-ring-diag-test-%s", t.Name())
	r, err := ring.Create(ctx, name, 4, 8, ring.Config{})
	require.NoError(t, err)
	defer r.Close()

	r.Publish(ctx, make([]byte, 8*6), 6) // wraps once

	snap := Snapshot(r)
	assert.Equal(t, uint64(4), snap.Capacity)
	assert.Equal(t, uint64(8), snap.FrameBytes)
	assert.Equal(t, uint64(6), snap.WriteIndex)
	assert.Equal(t, uint64(4), snap.OccupiedSlots)
}
