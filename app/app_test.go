package app

import (
	"io"

	"github.com/tocque/eventflow/domain"
)

// stubLoader implements domain.ProgramLoader over an in-memory map keyed by
// path, for tests that would otherwise need a real file on disk.
type stubLoader struct {
	docs map[string]*domain.ProgramDocument
	err  error
}

func (s *stubLoader) Load(path string) (*domain.ProgramDocument, error) {
	if s.err != nil {
		return nil, s.err
	}
	doc, ok := s.docs[path]
	if !ok {
		return nil, domain.NewFileNotFoundError(path, nil)
	}
	return doc, nil
}

// stubCFGFormatter records the program it was asked to render.
type stubCFGFormatter struct {
	program *domain.CompiledProgram
	format  domain.OutputFormat
}

func (s *stubCFGFormatter) Format(w io.Writer, format domain.OutputFormat, program *domain.CompiledProgram) error {
	s.format = format
	s.program = program
	_, err := io.WriteString(w, "cfg rendered\n")
	return err
}

// stubTraceFormatter records the trace it was asked to render.
type stubTraceFormatter struct {
	trace  *domain.ExecutionTrace
	format domain.OutputFormat
}

func (s *stubTraceFormatter) Format(w io.Writer, format domain.OutputFormat, trace *domain.ExecutionTrace) error {
	s.format = format
	s.trace = trace
	_, err := io.WriteString(w, "trace rendered\n")
	return err
}

// stubDiscoverer implements domain.DocumentDiscoverer over a fixed map from
// root to the paths that root should yield.
type stubDiscoverer struct {
	byRoot map[string][]string
	err    error
}

func (s *stubDiscoverer) Discover(root string, include, exclude []string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byRoot[root], nil
}

// stubProgress implements domain.ProgressReporter, recording calls.
type stubProgress struct {
	total    int
	advanced []string
	finished bool
}

func (s *stubProgress) Start(total int) { s.total = total }
func (s *stubProgress) Advance(name string, ok bool) {
	s.advanced = append(s.advanced, name)
}
func (s *stubProgress) Finish() { s.finished = true }
