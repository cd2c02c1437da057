package cache

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldGeometryLastWriteWins(t *testing.T) {
	h := NewHoldGeometry(10, time.Hour)
	h.Put("thing1", json.RawMessage(`{"v":1}`))
	h.Put("thing1", json.RawMessage(`{"v":2}`))

	got, ok := h.Get("thing1")
	assert.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(got))
	assert.Equal(t, 1, h.Len())
}

func TestHoldGeometryBounded(t *testing.T) {
	h := NewHoldGeometry(3, time.Hour)
	for i := 0; i < 5; i++ {
		h.Put(fmt.Sprintf("thing%d", i), json.RawMessage(`{}`))
	}

	assert.Equal(t, 3, h.Len())
	_, ok := h.Get("thing0")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = h.Get("thing4")
	assert.True(t, ok)
}

func TestHoldGeometryExpires(t *testing.T) {
	h := NewHoldGeometry(10, 20*time.Millisecond)
	h.Put("thing1", json.RawMessage(`{}`))

	assert.Eventually(t, func() bool {
		_, ok := h.Get("thing1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestHoldGeometryInstancesAreIsolated(t *testing.T) {
	a := NewHoldGeometry(10, time.Hour)
	b := NewHoldGeometry(10, time.Hour)
	a.Put("thing1", json.RawMessage(`{}`))

	_, ok := b.Get("thing1")
	assert.False(t, ok)
}

func TestHoldGeometryCopiesInput(t *testing.T) {
	h := NewHoldGeometry(10, time.Hour)
	buf := []byte(`{"v":1}`)
	h.Put("thing1", buf)
	buf[5] = '9'

	got, _ := h.Get("thing1")
	assert.JSONEq(t, `{"v":1}`, string(got))
}
