package app

import (
	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/interpreter"
)

// CheckUseCase discovers program documents under a set of roots and
// validates each one by compiling it, without running any of them
// (`eventflow check`). Grounded on pyscn's app/complexity_usecase.go
// Execute: collect files, report progress per file, format a summary.
type CheckUseCase struct {
	discoverer domain.DocumentDiscoverer
	loader     domain.ProgramLoader
	builtins   domain.BuiltinResolver
	progress   domain.ProgressReporter
}

// NewCheckUseCase creates a new check use case.
func NewCheckUseCase(
	discoverer domain.DocumentDiscoverer,
	loader domain.ProgramLoader,
	builtins domain.BuiltinResolver,
	progress domain.ProgressReporter,
) *CheckUseCase {
	return &CheckUseCase{discoverer: discoverer, loader: loader, builtins: builtins, progress: progress}
}

// Execute discovers and compiles every matching document under req.Paths,
// returning one CheckResult per document. It never fails the whole batch
// for one bad document — a compile failure is recorded in that document's
// CheckResult.Err instead.
func (uc *CheckUseCase) Execute(req domain.CheckRequest) ([]domain.CheckResult, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("at least one path is required", nil)
	}

	var files []string
	seen := make(map[string]bool)
	for _, root := range req.Paths {
		found, err := uc.discoverer.Discover(root, req.IncludePatterns, req.ExcludePatterns)
		if err != nil {
			return nil, domain.NewFileNotFoundError(root, err)
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no program documents found in the specified paths", nil)
	}

	if uc.progress != nil {
		uc.progress.Start(len(files))
		defer uc.progress.Finish()
	}

	results := make([]domain.CheckResult, 0, len(files))
	for _, path := range files {
		result := uc.checkOne(path)
		results = append(results, result)
		if uc.progress != nil {
			uc.progress.Advance(path, result.Err == "")
		}
	}
	return results, nil
}

func (uc *CheckUseCase) checkOne(path string) domain.CheckResult {
	doc, err := uc.loader.Load(path)
	if err != nil {
		return domain.CheckResult{Path: path, Err: err.Error()}
	}

	in, err := interpreter.New(uc.builtins, doc, 0)
	if err != nil {
		return domain.CheckResult{Path: path, Err: err.Error()}
	}

	main := in.Main()
	return domain.CheckResult{Path: path, Steps: main.Len(), Dead: len(main.Document().DeadIDs)}
}
