// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock holds an advisory exclusive lock on an archive file for the
// duration of an Append call (spec §5: "an implementation MAY take an
// advisory exclusive lock... recommended but not required"). The
// teacher shells out to flock(1) around git commands (lib/git.go's
// RunLocked); this does the equivalent syscall in-process via
// golang.org/x/sys/unix, since the archive writer has no reason to
// depend on an external binary for something one syscall provides.
type Lock struct {
	file *os.File
}

// AcquireLock opens (creating if needed) a sidecar lock file next to
// path and takes an exclusive, blocking flock(2) on it. The caller
// must call Release when done.
func AcquireLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("archive: opening lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("archive: acquiring lock: %w", err)
	}
	return &Lock{file: f}, nil
}

// Release unlocks and closes the lock file. The sidecar file itself is
// left on disk — removing it would race a concurrent waiter that has
// already opened it but not yet flocked it.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	if err != nil {
		return err
	}
	return closeErr
}
