package converter

import (
	"bufio"
	"io"
	"log/slog"
	"time"
)

type Option func(c *Converter)

// WithInput specifies where user answers are read from. Defaults to stdin
func WithInput(r io.Reader) Option {
	return func(c *Converter) {
		c.in = bufio.NewScanner(r)
	}
}

// WithOutput specifies where prompts and results are written. Defaults to stdout
func WithOutput(w io.Writer) Option {
	return func(c *Converter) {
		c.out = w
	}
}

// WithLogger specifies the logger for the converter
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithClock specifies the time source used to date conversions
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}
