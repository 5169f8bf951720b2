package domain

// Default configuration values. Unlike the rest of the domain package,
// these exist purely to give internal/config and the CLI flag defaults a
// single source of truth.
const (
	// DefaultStepLimit is the step-dispatch guard when a host has not set
	// one explicitly. Zero means unlimited: this has no analogue in the
	// spec and exists purely as an operational safeguard against a hosted
	// program that never returns or exits.
	DefaultStepLimit = 0

	// DefaultOutputFormat is the rendering format used when a command is
	// not told otherwise.
	DefaultOutputFormat = OutputFormatText
)
