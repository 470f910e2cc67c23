package config

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/footprint-tools/cmdr/internal/paths"
)

// WriteLines replaces the rc file atomically.
func WriteLines(lines []string) error {
	configPath, err := paths.ConfigFilePath()
	if err != nil {
		return err
	}
	return writeAtomic(configPath, lines)
}

// writeAtomic writes lines to a temp file next to path, syncs it and renames it over path.
func writeAtomic(path string, lines []string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cmdrrc.tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = tmp.Chmod(0600); err != nil {
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err = w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
