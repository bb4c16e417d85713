package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"human-input/config"
	"human-input/logger"
)

func TestWheelPointOnFreshPage(t *testing.T) {
	p := newPage(nil, config.BrowserConfig{ViewportWidth: 800, ViewportHeight: 600}, logger.Nop())

	x, y, err := p.wheelPoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 400.0, x)
	assert.Equal(t, 300.0, y)

	p.track(120, 45)
	x, y, err = p.wheelPoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120.0, x)
	assert.Equal(t, 45.0, y)
}
