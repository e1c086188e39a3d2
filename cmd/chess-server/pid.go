// FILE: chesscore/cmd/chess-server/pid.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// pidFile is a written, optionally flock'ed PID file
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// acquirePIDFile writes the current PID to path. With lock set, a second
// server pointed at the same file fails instead of overwriting it.
func acquirePIDFile(path string, lock bool) (*pidFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, os.ErrExist) {
		if lock {
			if err := describeExistingPID(path); err != nil {
				return nil, err
			}
		}
		file, err = os.OpenFile(path, os.O_WRONLY, 0644)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open PID file: %w", err)
	}

	pf := &pidFile{path: path, file: file}

	if lock {
		if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
			file.Close()
			if errors.Is(err, syscall.EWOULDBLOCK) {
				return nil, fmt.Errorf("cannot acquire lock on %s: another instance is running", path)
			}
			return nil, fmt.Errorf("lock failed: %w", err)
		}
		pf.locked = true
	}

	// Truncate only once the lock is held so a running owner's PID survives
	if err := file.Truncate(0); err != nil {
		pf.Release()
		return nil, fmt.Errorf("cannot truncate PID file: %w", err)
	}
	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		pf.Release()
		return nil, fmt.Errorf("cannot write PID: %w", err)
	}
	if err := file.Sync(); err != nil {
		pf.Release()
		return nil, fmt.Errorf("cannot sync PID file: %w", err)
	}

	return pf, nil
}

// Release unlocks and removes the file
func (pf *pidFile) Release() {
	if pf.locked {
		syscall.Flock(int(pf.file.Fd()), syscall.LOCK_UN)
	}
	pf.file.Close()
	os.Remove(pf.path)
}

// describeExistingPID explains why an existing PID file is still present. A
// dead owner is reported, not silently replaced, so the operator notices the
// unclean exit.
func describeExistingPID(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read existing PID file: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		// Empty file: a previous start died before writing, or the owner holds the lock
		return nil
	}
	pid, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("corrupted PID file (contains: %q)", raw)
	}

	proc, _ := os.FindProcess(pid)
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			return fmt.Errorf("stale PID file found for defunct process %d", pid)
		}
		return fmt.Errorf("process %d exists but cannot verify ownership: %v", pid, err)
	}

	// A live owner still holds the lock; flock reports that
	return nil
}
