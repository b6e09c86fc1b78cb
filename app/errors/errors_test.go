package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWith(t *testing.T) {
	t.Parallel()

	base := errors.New("invalid resource")
	cause := errors.New("path is empty")

	err := With(WithCause(base, cause, "resource", "people"), "index", 2, "resource", "persons")

	assert.EqualError(t, err, "invalid resource")
	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())
	assert.Equal(t, map[string]any{"resource": "persons", "index": 2}, err.Metadata())

	assert.Equal(t, []any{"cause", cause, "index", 2, "resource", "persons"}, Attrs(err))
	assert.Nil(t, Attrs(base))

	assert.Panics(t, func() { With(base, "odd") })
	assert.Panics(t, func() { With(base, 1, 2) })
}

func TestLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	Log(logger, With(errors.New("failed building catalog"), "resource", "people"))

	assert.Equal(t, "level=ERROR msg=\"failed building catalog\" resource=people\n", buf.String())
}
