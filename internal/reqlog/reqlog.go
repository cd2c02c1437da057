// Package reqlog records requests the server does not implement, one JSON file
// per request, for later study.
package reqlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/LibrelandCommunity/libreland-server/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/pierrec/lz4/v4"
)

const (
	jsonExt = ".json"
	lz4Ext  = ".json.lz4"

	maxURLPart = 120
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Entry is one recorded request
type Entry struct {
	Server    string            `json:"server"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Timestamp string            `json:"timestamp"`
	Headers   map[string]string `json:"headers"`
	Body      interface{}       `json:"body,omitempty"`
	Params    *Params           `json:"params,omitempty"`
}

// Params are the decoded inputs of a recorded request
type Params struct {
	Query map[string]string `json:"query"`
	Body  interface{}       `json:"body,omitempty"`
}

// Key identifies requests that are duplicates of each other
func (e Entry) Key() string {
	return e.Server + ":" + e.Method + ":" + e.URL
}

// Logger writes entries below Dir, grouped by server
type Logger struct {
	Dir      string
	Compress bool
	now      func() time.Time
}

// New creates a logger writing below dir, lz4 compressed when compress is set
func New(dir string, compress bool) *Logger {
	return &Logger{Dir: dir, Compress: compress, now: time.Now}
}

// Log writes e and returns the file path
func (l *Logger) Log(e Entry) (string, error) {
	serverDir := filepath.Join(l.Dir, strings.ToLower(e.Server))
	if err := os.MkdirAll(serverDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", serverDir, err)
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	ext := jsonExt
	if l.Compress {
		if data, err = compress(data); err != nil {
			return "", err
		}
		ext = lz4Ext
	}

	path := filepath.Join(serverDir, l.fileName(e)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	metrics.UnimplementedRequest(e.Server, e.Method)
	return path, nil
}

func (l *Logger) fileName(e Entry) string {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(now().UTC().Format("2006-01-02T15:04:05.000000000Z"))
	urlPart := unsafeChars.ReplaceAllString(e.URL, "_")
	if len(urlPart) > maxURLPart {
		urlPart = urlPart[:maxURLPart]
	}
	return ts + "-" + e.Method + "-" + urlPart
}

// FromFiber captures the request behind c as an Entry
func FromFiber(c *fiber.Ctx, server string) Entry {
	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		headers[strings.ToLower(string(key))] = string(value)
	})

	query := make(map[string]string)
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		query[string(key)] = string(value)
	})

	body := decodeBody(c)
	return Entry{
		Server:    server,
		Method:    c.Method(),
		URL:       c.BaseURL() + c.OriginalURL(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Headers:   headers,
		Body:      body,
		Params:    &Params{Query: query, Body: body},
	}
}

// decodeBody returns the request body as JSON or form values when it is either
func decodeBody(c *fiber.Ctx) interface{} {
	contentType := string(c.Request().Header.ContentType())
	switch {
	case strings.Contains(contentType, fiber.MIMEApplicationJSON):
		var v interface{}
		if err := json.Unmarshal(c.Body(), &v); err == nil {
			return v
		}
	case strings.Contains(contentType, fiber.MIMEApplicationForm):
		form := make(map[string]string)
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			form[string(key)] = string(value)
		})
		return form
	}
	return nil
}

// ReadEntry loads a recorded entry, decompressing .lz4 files
func ReadEntry(path string) (Entry, error) {
	var e Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	if strings.HasSuffix(path, lz4Ext) {
		if data, err = decompress(data); err != nil {
			return e, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return e, nil
}

func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}
