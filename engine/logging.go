package engine

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

var logLevel = new(slog.LevelVar)

// SetLogLevel adjusts the level of all handlers built by NewLogger.
func SetLogLevel(l slog.Level) { logLevel.Set(l) }

// NewLogger builds the session logger: a text handler on stderr, fanned out
// to a per-session log file when path is non-empty. The returned closer owns
// the file and may be nil.
func NewLogger(path string) (*slog.Logger, io.Closer, error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}),
	}

	var closer io.Closer
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
