package bootstrap

import (
	"fmt"
	"strings"

	"code.crute.us/mcrute/dropvisor/bootstrap/logging"
)

// Bootstrap drives the one-shot startup sequence: ensure the target
// directories exist, repair their ownership, then hand the process
// over to the workload. Each step is a hard gate and nothing retries;
// the orchestrator's restart policy is the only recovery mechanism,
// and an internal retry loop would just mask a persistently broken
// mount.
type Bootstrap struct {
	Logger *logging.InternalLogger
	Config *AppConfig

	stage Stage
}

// Stage reports how far the sequence got.
func (b *Bootstrap) Stage() Stage {
	return b.stage
}

func (b *Bootstrap) fail(phase string, err error) error {
	b.stage = StageFailed
	return &StageError{Phase: phase, Err: err}
}

// Run executes the sequence. On success it never returns because the
// process image has been replaced by the command vector. Any error it
// does return is fatal and tagged with the phase that produced it.
//
// The principal is resolved before ownership repair, not during the
// transfer, because the repair needs its numeric uid/gid. A principal
// missing from the user database therefore aborts the sequence before
// any directory is touched.
func (b *Bootstrap) Run(argv, env []string) error {
	if len(argv) == 0 {
		argv = b.Config.Command
	}
	if len(argv) == 0 {
		return b.fail(PhaseTransferAndExec, fmt.Errorf("Run: no command to execute"))
	}

	b.Logger.Logf(PhaseEnsureDirectories, "ensuring directories: %s", strings.Join(b.Config.Dirs, " "))
	if err := EnsureDirectories(b.Config.Dirs); err != nil {
		return b.fail(PhaseEnsureDirectories, err)
	}
	b.stage = StageDirectoriesEnsured

	p, err := resolvePrincipal(b.Config.RunAsUser, b.Config.RunAsGroup)
	if err != nil {
		return b.fail(PhaseResolvePrincipal, err)
	}

	b.Logger.Logf(PhaseRepairOwnership, "re-owning directories to %s (%d:%d)", p.Username, p.Uid, p.Gid)
	if err := RepairOwnership(b.Config.Dirs, p); err != nil {
		return b.fail(PhaseRepairOwnership, err)
	}
	b.stage = StageOwnershipRepaired

	b.Logger.Logf(PhaseTransferAndExec, "handing off to %s as %s", argv[0], p.Username)
	b.Logger.Flush()

	b.stage = StageExecuting
	if err := TransferAndExec(p, argv, env); err != nil {
		return b.fail(PhaseTransferAndExec, err)
	}
	return nil
}
