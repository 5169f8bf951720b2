package domain

// FrameSnapshot captures the resumable state of a single call frame:
// which executable it is running, its current program counter, and its
// Local scratch mapping. Args is fixed at frame entry and is captured too,
// since the host cannot reconstruct it later; Env is deliberately absent —
// it is ambient context the host supplies afresh on resume.
type FrameSnapshot struct {
	Executable string
	PC         int
	Args       map[string]any
	Local      map[string]any
}

// Snapshot is an ordered call stack sufficient to resume execution,
// per spec §6's "Persisted state layout (contract, not format)". It is a
// contract, not a durable format: nothing in this repository serialises a
// Snapshot to bytes or restores one from storage. That is left to the host,
// per spec §1's scoping of the persistence layer as an external collaborator.
type Snapshot struct {
	Frames []FrameSnapshot
}
