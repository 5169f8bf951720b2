package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/tocque/eventflow/domain"
)

// ProgressReporterImpl reports progress over a batch of program files, e.g.
// `eventflow check` walking a glob of documents. Grounded on pyscn's
// service/progress_manager.go ProgressManagerImpl: same progressbar/v3 +
// golang.org/x/term TTY-detection pattern, collapsed to the single-task
// shape domain.ProgressReporter exposes (Start/Advance/Finish) rather than
// pyscn's multi-named-task tracker, since a check run only ever tracks one
// batch at a time.
type ProgressReporterImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	bar         *progressbar.ProgressBar
	interactive bool
	ok, failed  int
}

// NewProgressReporter creates a progress reporter writing to stderr.
func NewProgressReporter() *ProgressReporterImpl {
	return &ProgressReporterImpl{
		writer:      os.Stderr,
		interactive: isInteractiveEnvironment(),
	}
}

// SetWriter overrides the output writer, re-checking TTY interactivity.
func (p *ProgressReporterImpl) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writer = w
	if f, ok := w.(*os.File); ok {
		p.interactive = term.IsTerminal(int(f.Fd()))
	} else {
		p.interactive = false
	}
}

func (p *ProgressReporterImpl) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ok, p.failed = 0, 0
	if !p.interactive {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("checking"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.writer)
		}),
	)
}

func (p *ProgressReporterImpl) Advance(name string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ok {
		p.ok++
	} else {
		p.failed++
	}

	if p.bar != nil {
		_ = p.bar.Add(1)
		return
	}
	status := "ok"
	if !ok {
		status = "FAIL"
	}
	fmt.Fprintf(p.writer, "[%s] %s\n", status, name)
}

func (p *ProgressReporterImpl) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Finish()
	}
	fmt.Fprintf(p.writer, "%d ok, %d failed\n", p.ok, p.failed)
}

// isInteractiveEnvironment reports whether stderr looks like an
// interactive TTY session and the environment is not CI.
func isInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	if fi, err := os.Stderr.Stat(); err == nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}
