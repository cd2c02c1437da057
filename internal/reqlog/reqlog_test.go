package reqlog

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Millisecond)
	}
}

func TestLogWritesServerFile(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, false)
	l.now = fixedClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	path, err := l.Log(Entry{Server: "API", Method: "POST", URL: "http://localhost:3000/thing?x=1"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "api"), filepath.Dir(path))
	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "2024-01-02T03-04-05-001000000Z-POST-http___localhost_3000_thing_x_1"), name)
	assert.True(t, strings.HasSuffix(name, ".json"))

	entry, err := ReadEntry(path)
	require.NoError(t, err)
	assert.Equal(t, "API:POST:http://localhost:3000/thing?x=1", entry.Key())
}

func TestLogCompressedRoundTrip(t *testing.T) {
	l := New(t.TempDir(), true)
	path, err := l.Log(Entry{Server: "API", Method: "GET", URL: "/x", Body: map[string]interface{}{"a": "b"}})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".json.lz4"))

	entry, err := ReadEntry(path)
	require.NoError(t, err)
	assert.Equal(t, "/x", entry.URL)
	assert.Equal(t, map[string]interface{}{"a": "b"}, entry.Body)
}

func TestDedupeKeepsFirstOfEachKey(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, false)
	l.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	first, err := l.Log(Entry{Server: "API", Method: "POST", URL: "/a"})
	require.NoError(t, err)
	dup, err := l.Log(Entry{Server: "API", Method: "POST", URL: "/a"})
	require.NoError(t, err)
	_, err = l.Log(Entry{Server: "API", Method: "GET", URL: "/a"})
	require.NoError(t, err)
	l.Compress = true
	dupCompressed, err := l.Log(Entry{Server: "API", Method: "POST", URL: "/a"})
	require.NoError(t, err)

	result, err := Dedupe(dir, false)
	require.NoError(t, err)
	assert.Equal(t, DedupeResult{Files: 4, Kept: 2, Deleted: 2}, result)

	assert.FileExists(t, first)
	assert.NoFileExists(t, dup)
	assert.NoFileExists(t, dupCompressed)
}

func TestDedupeDryRunDeletesNothing(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, false)
	l.now = fixedClock(time.Now())
	_, _ = l.Log(Entry{Server: "API", Method: "POST", URL: "/a"})
	dup, _ := l.Log(Entry{Server: "API", Method: "POST", URL: "/a"})

	result, err := Dedupe(dir, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.FileExists(t, dup)
}

func TestDedupeSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	result, err := Dedupe(dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestFromFiberCapturesFormBody(t *testing.T) {
	app := fiber.New()
	var got Entry
	app.Post("/thing", func(c *fiber.Ctx) error {
		got = FromFiber(c, "API")
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/thing?q=1", strings.NewReader("name=box&size=2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "POST", got.Method)
	assert.True(t, strings.HasSuffix(got.URL, "/thing?q=1"))
	assert.Equal(t, map[string]string{"name": "box", "size": "2"}, got.Body)
	assert.Equal(t, map[string]string{"q": "1"}, got.Params.Query)
	assert.Equal(t, "application/x-www-form-urlencoded", got.Headers["content-type"])
}
