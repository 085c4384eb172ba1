package bootstrap

import (
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// For testing purposes only
var (
	setgroups func([]int) error                      = unix.Setgroups
	setgid    func(int) error                        = unix.Setgid
	setuid    func(int) error                        = unix.Setuid
	access    func(string, uint32) error             = unix.Access
	execve    func(string, []string, []string) error = unix.Exec
)

// dropPrivileges permanently replaces the process credentials with the
// principal's. Supplementary groups and the gid must change before the
// uid does, because after setuid the process no longer may.
func dropPrivileges(p *Principal) error {
	if err := setgroups(p.Groups); err != nil {
		return fmt.Errorf("dropPrivileges: setgroups: %w", err)
	}
	if err := setgid(p.Gid); err != nil {
		return fmt.Errorf("dropPrivileges: setgid(%d): %w", p.Gid, err)
	}
	if err := setuid(p.Uid); err != nil {
		return fmt.Errorf("dropPrivileges: setuid(%d): %w", p.Uid, err)
	}

	// The drop is only real if the old identity is unreachable
	if p.Gid != 0 {
		if err := setgid(0); err == nil {
			return fmt.Errorf("dropPrivileges: still able to re-gain gid 0 after dropping")
		}
	}
	if p.Uid != 0 {
		if err := setuid(0); err == nil {
			return fmt.Errorf("dropPrivileges: still able to re-gain uid 0 after dropping")
		}
	}

	return nil
}

// TransferAndExec permanently drops process credentials to the
// principal and replaces the current process image with the command
// vector. The pid, open file descriptors, environment, and standard
// streams all carry over, so the workload stays the container's entry
// process and receives the orchestrator's signals directly. On success
// this never returns.
//
// The executable is resolved after the drop so PATH lookup and the
// execute-permission check see exactly what the workload will.
func TransferAndExec(p *Principal, argv, env []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("TransferAndExec: empty command vector")
	}

	if err := dropPrivileges(p); err != nil {
		return fmt.Errorf("TransferAndExec: %w", err)
	}

	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("TransferAndExec: unable to locate %s: %w", argv[0], err)
	}
	if err := access(bin, unix.X_OK); err != nil {
		return fmt.Errorf("TransferAndExec: %s is not executable: %w", bin, err)
	}

	if err := execve(bin, argv, env); err != nil {
		return fmt.Errorf("TransferAndExec: unable to exec %s: %w", bin, err)
	}
	return nil
}
