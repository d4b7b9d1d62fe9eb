package ring

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniqueName gives each test its own shm name so parallel test runs don't
// collide on /dev/shm.
func uniqueName(t *testing.T) string {
	return fmt.Sprintf("/frame-ring-test-%s", t.Name())
}

func floatBytes(vals ...float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// TestLayoutStability covers spec.md §8 property 1.
func TestLayoutStability(t *testing.T) {
	ctx := context.Background()
	r, err := Create(ctx, uniqueName(t), 4, 8, Config{})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, uint64(0), r.WriteIndex())
	assert.Equal(t, uint64(4), binary.LittleEndian.Uint64(r.region.Addr[8:16]))
	assert.Equal(t, uint64(8), binary.LittleEndian.Uint64(r.region.Addr[16:24]))
}

// TestS1SinglePublishRead covers spec.md §8 scenario S1.
func TestS1SinglePublishRead(t *testing.T) {
	ctx := context.Background()
	r, err := Create(ctx, uniqueName(t), 4, 8, Config{})
	require.NoError(t, err)
	defer r.Close()

	r.Publish(ctx, floatBytes(1.0, 2.0), 1)

	assert.Equal(t, uint64(1), r.WriteIndex())
	view := r.ViewFrame(0, 1, 2)
	assert.Equal(t, float32(1.0), view.At(0, 0))
	assert.Equal(t, float32(2.0), view.At(0, 1))
}

// TestS2Wrap covers spec.md §8 scenario S2.
func TestS2Wrap(t *testing.T) {
	ctx := context.Background()
	r, err := Create(ctx, uniqueName(t), 3, 4, Config{})
	require.NoError(t, err)
	defer r.Close()

	for _, v := range []float32{10, 20, 30, 40, 50} {
		r.Publish(ctx, floatBytes(v), 1)
	}

	assert.Equal(t, uint64(5), r.WriteIndex())
	assert.Equal(t, float32(40), r.ViewFrame(3, 1, 1).At(0, 0)) // slot 0
	assert.Equal(t, float32(50), r.ViewFrame(4, 1, 1).At(0, 0)) // slot 1
	assert.Equal(t, float32(30), r.ViewFrame(2, 1, 1).At(0, 0)) // slot 2
}

// TestMonotonicity covers spec.md §8 property 2.
func TestMonotonicity(t *testing.T) {
	ctx := context.Background()
	r, err := Create(ctx, uniqueName(t), 8, 4, Config{})
	require.NoError(t, err)
	defer r.Close()

	var prev uint64
	for _, k := range []int{1, 3, 2, 5} {
		buf := make([]byte, k*4)
		r.Publish(ctx, buf, k)
		cur := r.WriteIndex()
		assert.Equal(t, prev+uint64(k), cur)
		prev = cur
	}
}

// TestOpenAfterCreate covers spec.md §8 property 4 / scenario S3.
func TestOpenAfterCreate(t *testing.T) {
	ctx := context.Background()
	name := uniqueName(t)
	producer, err := Create(ctx, name, 2, 8, Config{})
	require.NoError(t, err)
	defer producer.Close()

	producer.Publish(ctx, floatBytes(7.0, 8.0), 1)

	consumer, err := Open(ctx, name, 2, 8, Config{})
	require.NoError(t, err)
	defer consumer.Close()

	assert.Equal(t, producer.WriteIndex(), consumer.WriteIndex())
	assert.Equal(t, producer.Capacity(), consumer.Capacity())
	assert.Equal(t, producer.FrameBytes(), consumer.FrameBytes())

	view := consumer.ViewFrame(0, 1, 2)
	assert.Equal(t, float32(7.0), view.At(0, 0))
	assert.Equal(t, float32(8.0), view.At(0, 1))
}

// TestOpenHeaderMismatch covers the Open cross-check spec.md §3 calls for.
func TestOpenHeaderMismatch(t *testing.T) {
	ctx := context.Background()
	name := uniqueName(t)
	producer, err := Create(ctx, name, 4, 8, Config{})
	require.NoError(t, err)
	defer producer.Close()

	_, err = Open(ctx, name, 4, 16, Config{})
	assert.ErrorIs(t, err, ErrHeaderMismatch)
}

// TestMovedFromEmptiness covers spec.md §8 property 8.
func TestMovedFromEmptiness(t *testing.T) {
	ctx := context.Background()
	r, err := Create(ctx, uniqueName(t), 4, 8, Config{})
	require.NoError(t, err)

	moved := r.Take()
	assert.NoError(t, r.Close()) // no-op teardown on the moved-from handle

	moved.Publish(ctx, floatBytes(1.0, 2.0), 1)
	assert.Equal(t, uint64(1), moved.WriteIndex())
	require.NoError(t, moved.Close())
}
