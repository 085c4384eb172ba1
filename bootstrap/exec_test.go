package bootstrap

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func restoreSyscallStubs() {
	setgroups = unix.Setgroups
	setgid = unix.Setgid
	setuid = unix.Setuid
	access = unix.Access
	execve = unix.Exec
}

func TestDropPrivilegesOrder(t *testing.T) {
	defer restoreSyscallStubs()

	var calls []string
	setgroups = func(gids []int) error {
		calls = append(calls, fmt.Sprintf("setgroups%v", gids))
		return nil
	}
	setgid = func(gid int) error {
		calls = append(calls, fmt.Sprintf("setgid(%d)", gid))
		if gid == 0 {
			return syscall.EPERM
		}
		return nil
	}
	setuid = func(uid int) error {
		calls = append(calls, fmt.Sprintf("setuid(%d)", uid))
		if uid == 0 {
			return syscall.EPERM
		}
		return nil
	}

	p := &Principal{Username: "appuser", Uid: 1000, Gid: 1000, Groups: []int{1000, 44}}
	assert.NoError(t, dropPrivileges(p))

	// Groups must go first, then gid, then uid, then the re-gain
	// probes.
	assert.Equal(t, []string{
		"setgroups[1000 44]",
		"setgid(1000)",
		"setuid(1000)",
		"setgid(0)",
		"setuid(0)",
	}, calls)
}

func TestDropPrivilegesSetgroupsFails(t *testing.T) {
	defer restoreSyscallStubs()

	setgroups = func([]int) error { return syscall.EPERM }

	err := dropPrivileges(&Principal{Uid: 1000, Gid: 1000})
	assert.ErrorContains(t, err, "setgroups")
}

func TestDropPrivilegesRegainedGid(t *testing.T) {
	defer restoreSyscallStubs()

	setgroups = func([]int) error { return nil }
	setgid = func(int) error { return nil }
	setuid = func(uid int) error {
		if uid == 0 {
			return syscall.EPERM
		}
		return nil
	}

	err := dropPrivileges(&Principal{Uid: 1000, Gid: 1000})
	assert.ErrorContains(t, err, "re-gain gid 0")
}

func TestDropPrivilegesRegainedUid(t *testing.T) {
	defer restoreSyscallStubs()

	setgroups = func([]int) error { return nil }
	setgid = func(gid int) error {
		if gid == 0 {
			return syscall.EPERM
		}
		return nil
	}
	setuid = func(int) error { return nil }

	err := dropPrivileges(&Principal{Uid: 1000, Gid: 1000})
	assert.ErrorContains(t, err, "re-gain uid 0")
}

func stubSuccessfulDrop() {
	setgroups = func([]int) error { return nil }
	setgid = func(gid int) error {
		if gid == 0 {
			return syscall.EPERM
		}
		return nil
	}
	setuid = func(uid int) error {
		if uid == 0 {
			return syscall.EPERM
		}
		return nil
	}
}

func TestTransferAndExecEmptyCommand(t *testing.T) {
	err := TransferAndExec(&Principal{Uid: 1000, Gid: 1000}, nil, nil)
	assert.ErrorContains(t, err, "empty command vector")
}

func TestTransferAndExecMissingBinary(t *testing.T) {
	defer restoreSyscallStubs()
	stubSuccessfulDrop()

	err := TransferAndExec(&Principal{Uid: 1000, Gid: 1000}, []string{"dropvisor-no-such-binary"}, nil)
	assert.ErrorContains(t, err, "unable to locate dropvisor-no-such-binary")
}

func TestTransferAndExecNotExecutable(t *testing.T) {
	defer restoreSyscallStubs()
	stubSuccessfulDrop()
	access = func(string, uint32) error { return syscall.EACCES }

	err := TransferAndExec(&Principal{Uid: 1000, Gid: 1000}, []string{"/bin/sh"}, nil)
	assert.ErrorContains(t, err, "is not executable")
}

func TestTransferAndExecPassesArgvAndEnv(t *testing.T) {
	defer restoreSyscallStubs()
	stubSuccessfulDrop()
	access = func(string, uint32) error { return nil }

	var gotBin string
	var gotArgv, gotEnv []string
	execve = func(bin string, argv, env []string) error {
		gotBin = bin
		gotArgv = argv
		gotEnv = env
		return nil
	}

	argv := []string{"/bin/sh", "-c", "true"}
	env := []string{"FOO=bar", "PATH=/usr/bin"}
	assert.NoError(t, TransferAndExec(&Principal{Uid: 1000, Gid: 1000}, argv, env))

	assert.Equal(t, "/bin/sh", gotBin)
	assert.Equal(t, argv, gotArgv)
	assert.Equal(t, env, gotEnv)
}

func TestTransferAndExecFailure(t *testing.T) {
	defer restoreSyscallStubs()
	stubSuccessfulDrop()
	access = func(string, uint32) error { return nil }
	execve = func(string, []string, []string) error { return syscall.ENOEXEC }

	err := TransferAndExec(&Principal{Uid: 1000, Gid: 1000}, []string{"/bin/sh"}, nil)
	assert.ErrorContains(t, err, "unable to exec")
}

func TestTransferAndExecNoDropOnFailedSetuid(t *testing.T) {
	defer restoreSyscallStubs()

	setgroups = func([]int) error { return nil }
	setgid = func(gid int) error {
		if gid == 0 {
			return syscall.EPERM
		}
		return nil
	}
	setuid = func(int) error { return syscall.EPERM }

	var execCalled bool
	execve = func(string, []string, []string) error {
		execCalled = true
		return nil
	}

	err := TransferAndExec(&Principal{Uid: 1000, Gid: 1000}, []string{"/bin/sh"}, nil)
	assert.ErrorContains(t, err, "setuid(1000)")
	assert.False(t, execCalled)
}
