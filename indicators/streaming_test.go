package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleMAStreaming(t *testing.T) {
	t.Parallel()

	t.Run("basic functionality", func(t *testing.T) {
		ma := NewMA(3)
		assert.Equal(t, "MA(3)", ma.Name())
		assert.Equal(t, 3, ma.Warmup())
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())

		ma.Update(102)
		assert.False(t, ma.Ready())

		ma.Update(105)
		assert.False(t, ma.Ready())

		ma.Update(106)
		assert.True(t, ma.Ready())
		assert.InDelta(t, (102.0+105.0+106.0)/3.0, ma.Value(), 0.001)

		// A fourth close slides the window.
		ma.Update(108)
		assert.True(t, ma.Ready())
		assert.InDelta(t, (105.0+106.0+108.0)/3.0, ma.Value(), 0.001)
	})

	t.Run("reset functionality", func(t *testing.T) {
		ma := NewMA(2)
		ma.Update(100)
		ma.Update(104)
		assert.True(t, ma.Ready())

		ma.Reset()
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())
	})

	t.Run("period of one tracks the close", func(t *testing.T) {
		ma := NewMA(1)
		ma.Update(42)
		assert.True(t, ma.Ready())
		assert.InDelta(t, 42.0, ma.Value(), 0.001)

		ma.Update(43)
		assert.InDelta(t, 43.0, ma.Value(), 0.001)
	})
}
