package bootstrap

import "fmt"

// Stage is the startup sequence's state machine. It only ever moves
// forward; Executing and Failed are terminal.
type Stage int

const (
	StageStart Stage = iota
	StageDirectoriesEnsured
	StageOwnershipRepaired
	StageExecuting
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageDirectoriesEnsured:
		return "directories-ensured"
	case StageOwnershipRepaired:
		return "ownership-repaired"
	case StageExecuting:
		return "executing"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// Phase names used in diagnostics so container logs identify which
// step of the sequence failed.
const (
	PhaseEnsureDirectories = "ensure-directories"
	PhaseResolvePrincipal  = "resolve-principal"
	PhaseRepairOwnership   = "repair-ownership"
	PhaseTransferAndExec   = "transfer-and-exec"
)

// StageError tags a fatal startup failure with the phase that produced
// it.
type StageError struct {
	Phase string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
