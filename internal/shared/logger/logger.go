package logger

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New returns a logger tagged with app and env. Output is human-readable
// text when w is a terminal and JSON otherwise.
func New(app, env string, level slog.Level, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if isTerminal(w) {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("app", app),
		slog.String("env", env),
	)
}

// OpenFile opens path for appending log lines, creating it owner-only.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
