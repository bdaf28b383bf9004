package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// pidFile holds the server's PID file, optionally flock'ed
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// managePIDFile writes the current PID to path and returns a cleanup that
// unlocks and removes it. With lock set a live owner blocks startup.
func managePIDFile(path string, lock bool) (func(), error) {
	pf := &pidFile{path: path}
	if err := pf.acquire(lock); err != nil {
		return nil, err
	}
	return pf.release, nil
}

func (pf *pidFile) acquire(lock bool) error {
	file, err := os.OpenFile(pf.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	switch {
	case err == nil:
	case !os.IsExist(err):
		return fmt.Errorf("cannot create PID file: %w", err)
	default:
		if lock {
			if err := checkOwner(pf.path); err != nil {
				return err
			}
		}
		if file, err = os.OpenFile(pf.path, os.O_WRONLY|os.O_TRUNC, 0644); err != nil {
			return fmt.Errorf("cannot open PID file: %w", err)
		}
	}
	pf.file = file

	if lock {
		if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
			file.Close()
			if errors.Is(err, syscall.EWOULDBLOCK) {
				return fmt.Errorf("cannot acquire lock: another server is running")
			}
			return fmt.Errorf("lock failed: %w", err)
		}
		pf.locked = true
	}

	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		pf.release()
		return fmt.Errorf("cannot write PID: %w", err)
	}
	if err := file.Sync(); err != nil {
		pf.release()
		return fmt.Errorf("cannot sync PID file: %w", err)
	}
	return nil
}

func (pf *pidFile) release() {
	if pf.locked {
		syscall.Flock(int(pf.file.Fd()), syscall.LOCK_UN)
	}
	pf.file.Close()
	os.Remove(pf.path)
}

// checkOwner fails when the PID recorded at path belongs to a live process.
// A leftover file from a dead process is overwritten.
func checkOwner(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read existing PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("corrupted PID file (contains: %q)", data)
	}

	// FindProcess never fails on Unix; signal 0 checks liveness
	proc, _ := os.FindProcess(pid)
	err = proc.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return fmt.Errorf("process %d from PID file is still running", pid)
	case errors.Is(err, os.ErrProcessDone), errors.Is(err, syscall.ESRCH):
		return nil
	default:
		return fmt.Errorf("process %d exists but cannot verify ownership: %v", pid, err)
	}
}
