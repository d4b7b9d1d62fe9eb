package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferDrainOrder(t *testing.T) {
	s := NewStage(4)
	require.NoError(t, s.Offer([]byte("a")))
	require.NoError(t, s.Offer([]byte("b")))
	require.NoError(t, s.Offer([]byte("c")))

	frames := s.Drain(2)
	require.Len(t, frames, 2)
	assert.Equal(t, "a", string(frames[0]))
	assert.Equal(t, "b", string(frames[1]))
	assert.Equal(t, 1, s.Len())
}

func TestOfferFullRejected(t *testing.T) {
	s := NewStage(2)
	require.NoError(t, s.Offer([]byte("a")))
	require.NoError(t, s.Offer([]byte("b")))
	assert.ErrorIs(t, s.Offer([]byte("c")), ErrStageFull)
}

func TestCloseRejectsOffer(t *testing.T) {
	s := NewStage(2)
	s.Close()
	assert.ErrorIs(t, s.Offer([]byte("a")), ErrStageClosed)
	assert.Nil(t, s.Drain(1))
}
