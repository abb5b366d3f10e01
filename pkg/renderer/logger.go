package renderer

import (
	"fmt"
	"os"
	"sync"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stderr
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// progressReporter counts finished rows down and logs the remainder. Workers
// call it concurrently; the mutex serializes calls into the logger.
type progressReporter struct {
	mu        sync.Mutex
	logger    core.Logger
	remaining int
	step      int
}

func newProgressReporter(logger core.Logger, totalRows int) *progressReporter {
	return &progressReporter{
		logger:    logger,
		remaining: totalRows,
		step:      max(1, totalRows/20),
	}
}

func (p *progressReporter) rowDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.remaining--
	if p.logger != nil && (p.remaining%p.step == 0 || p.remaining == 0) {
		p.logger.Printf("\rRemaining scanlines: %d ", p.remaining)
	}
}

func (p *progressReporter) done() {
	if p.logger != nil {
		p.logger.Printf("\rDone.                 \n")
	}
}
