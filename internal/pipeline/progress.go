package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressCallback receives batch processing progress.
type ProgressCallback interface {
	// OnStart is called once with the number of documents in the batch.
	OnStart(total int)

	// OnProgress is called after each document finishes.
	OnProgress(current, total int)

	// OnComplete is called when the batch is done.
	OnComplete()

	// OnError is called when a document fails.
	OnError(current int, err error)
}

// NoOpProgress is the default callback when no reporting is wanted.
type NoOpProgress struct{}

func (NoOpProgress) OnStart(int)         {}
func (NoOpProgress) OnProgress(int, int) {}
func (NoOpProgress) OnComplete()         {}
func (NoOpProgress) OnError(int, error)  {}

// ConsoleProgress draws a single-line progress bar for batch runs.
type ConsoleProgress struct {
	writer   io.Writer
	prefix   string
	width    int
	interval time.Duration

	mu         sync.Mutex
	started    time.Time
	lastUpdate time.Time
}

// NewConsoleProgress creates a console progress reporter; a nil writer
// defaults to stderr.
func NewConsoleProgress(writer io.Writer, prefix string) *ConsoleProgress {
	if writer == nil {
		writer = os.Stderr
	}
	return &ConsoleProgress{
		writer:   writer,
		prefix:   prefix,
		width:    40,
		interval: 100 * time.Millisecond,
	}
}

func (c *ConsoleProgress) OnStart(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = time.Now()
	c.lastUpdate = time.Time{}
	_, _ = fmt.Fprintf(c.writer, "%s0/%d documents\n", c.prefix, total)
}

func (c *ConsoleProgress) OnProgress(current, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastUpdate) < c.interval && current < total {
		return
	}
	c.lastUpdate = now

	if total == 0 {
		return
	}
	filled := c.width * current / total
	bar := strings.Repeat("#", filled) + strings.Repeat(".", c.width-filled)
	percent := float64(current) / float64(total) * 100
	_, _ = fmt.Fprintf(c.writer, "\r%s[%s] %d/%d (%.0f%%)", c.prefix, bar, current, total, percent)
}

func (c *ConsoleProgress) OnComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.writer, "\n%sdone in %v\n", c.prefix, time.Since(c.started).Round(time.Millisecond))
}

func (c *ConsoleProgress) OnError(current int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.writer, "\n%sdocument %d failed: %v\n", c.prefix, current, err)
}

// LogProgress reports progress through slog, for non-interactive runs.
type LogProgress struct {
	logger   *slog.Logger
	interval int

	mu      sync.Mutex
	lastLog int
	started time.Time
}

// NewLogProgress creates a log-based reporter logging every interval
// documents; a nil logger uses slog.Default.
func NewLogProgress(logger *slog.Logger, interval int) *LogProgress {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 10
	}
	return &LogProgress{logger: logger, interval: interval}
}

func (l *LogProgress) OnStart(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = time.Now()
	l.lastLog = 0
	l.logger.Info("batch started", "total", total)
}

func (l *LogProgress) OnProgress(current, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if current-l.lastLog < l.interval && current != total {
		return
	}
	l.lastLog = current
	l.logger.Info("batch progress",
		"current", current,
		"total", total,
		"elapsed", time.Since(l.started).Round(time.Millisecond))
}

func (l *LogProgress) OnComplete() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Info("batch completed", "elapsed", time.Since(l.started).Round(time.Millisecond))
}

func (l *LogProgress) OnError(current int, err error) {
	l.logger.Error("document failed", "index", current, "error", err)
}
