package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/footprint-tools/cmdr/internal/paths"
)

const (
	lockTimeout      = 5 * time.Second
	staleLockTimeout = 30 * time.Second
	lockPollInterval = 50 * time.Millisecond
)

// ErrLockTimeout is returned when the rc lock cannot be acquired in time.
var ErrLockTimeout = errors.New("config: lock timeout")

// WithLock runs fn while holding <rc file>.lock, so concurrent
// `cmdr config:set` calls do not lose each other's writes.
func WithLock(fn func() error) error {
	configPath, err := paths.ConfigFilePath()
	if err != nil {
		return err
	}
	lockPath := configPath + ".lock"

	f, err := acquireLock(lockPath, time.Now().Add(lockTimeout))
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(lockPath)
	}()

	return fn()
}

// acquireLock creates lockPath exclusively, removing it first if stale, until deadline.
func acquireLock(lockPath string, deadline time.Time) (*os.File, error) {
	for {
		if info, err := os.Stat(lockPath); err == nil && time.Since(info.ModTime()) > staleLockTimeout {
			_ = os.Remove(lockPath)
		}

		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
			return f, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		time.Sleep(lockPollInterval)
	}
}
