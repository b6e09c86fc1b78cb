package errors

import (
	"errors"
	"log/slog"
	"slices"
)

// Attrs returns the slog key/value pairs of err. If err wraps a
// StructuredError, its cause is the first pair, followed by the metadata
// sorted by key.
func Attrs(err error) []any {
	var serr *StructuredError
	if !errors.As(err, &serr) {
		return nil
	}

	args := make([]any, 0, len(serr.metadata)*2+2)
	if serr.cause != nil {
		args = append(args, "cause", serr.cause)
	}

	keys := make([]string, 0, len(serr.metadata))
	for k := range serr.metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		args = append(args, k, serr.metadata[k])
	}

	return args
}

// Log logs err at the error level with logger, or the default logger if it's
// nil, rendering the metadata of a StructuredError as attributes.
func Log(logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(err.Error(), Attrs(err)...)
}
