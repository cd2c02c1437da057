package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewObjectIDShape(t *testing.T) {
	id := NewObjectID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{24}$`), id)
}

func TestNewObjectIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewObjectID()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestObjectIDTime(t *testing.T) {
	at := time.Date(2016, 6, 29, 12, 0, 0, 0, time.UTC)
	got, ok := ObjectIDTime(objectIDAt(at))
	assert.True(t, ok)
	assert.Equal(t, at, got)

	_, ok = ObjectIDTime("short")
	assert.False(t, ok)
}
