package timing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceIsDeterministic(t *testing.T) {
	a, b := NewSource(42), NewSource(42)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Uniform(-5, 5), b.Uniform(-5, 5))
		require.Equal(t, a.IntRange(3, 5), b.IntRange(3, 5))
	}
}

func TestSourceBounds(t *testing.T) {
	s := NewSource(7)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		u := s.Uniform(0.3, 0.7)
		assert.True(t, u >= 0.3 && u <= 0.7, "uniform out of range: %v", u)

		n := s.IntRange(2, 3)
		seen[n] = true
		assert.True(t, n == 2 || n == 3)

		d := s.Duration(10*time.Millisecond, 20*time.Millisecond)
		assert.True(t, d >= 10*time.Millisecond && d <= 20*time.Millisecond)
	}
	assert.Len(t, seen, 2, "both ends of an inclusive range must be reachable")
}

func TestSourceDegenerateRanges(t *testing.T) {
	s := NewSource(1)
	assert.Equal(t, 4, s.IntRange(4, 4))
	assert.Equal(t, 2.5, s.Uniform(2.5, 2.5))
	assert.Equal(t, time.Second, s.Duration(time.Second, time.Second))
	assert.Equal(t, 0, s.Intn(0))

	u := s.Uniform(10, -10)
	assert.True(t, u >= -10 && u <= 10)
}

func TestWindowFor(t *testing.T) {
	assert.Equal(t, DefaultWindows[ActionTypeRead], WindowFor(ActionTypeRead))
	assert.Equal(t, fallbackWindow, WindowFor("unknown"))

	w := Window{Min: time.Second, Max: 2 * time.Second}.Scale(0.5)
	assert.Equal(t, Window{Min: 500 * time.Millisecond, Max: time.Second}, w)
}

func TestRealSleeperCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := RealSleeper{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, RealSleeper{}.Sleep(context.Background(), time.Millisecond))
}
