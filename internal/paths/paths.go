package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "cmdr"

// AppDataDir returns the application data directory for config and logs.
// Uses os.UserConfigDir() which returns:
//   - macOS: ~/Library/Application Support
//   - Linux: $XDG_CONFIG_HOME or ~/.config
//   - Windows: %AppData% (roaming)
func AppDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	path := filepath.Join(dir, appDirName)

	// Use restrictive permissions for application data
	_ = os.MkdirAll(path, 0700)

	return path
}

// AppLocalDataDir returns the OS-appropriate local data directory.
// This is where application-managed data (like the history database) lives.
//   - macOS: ~/Library/Application Support/cmdr
//   - Linux: $XDG_DATA_HOME/cmdr or ~/.local/share/cmdr
//   - Windows: %LOCALAPPDATA%\cmdr
func AppLocalDataDir() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		base = filepath.Join(home, "Library", "Application Support")

	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, "AppData", "Local")
		}

	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(base, appDirName)
}

// HistoryDBPath returns the path to the invocation history database.
func HistoryDBPath() string {
	dir := AppLocalDataDir()
	_ = os.MkdirAll(dir, 0700)
	return filepath.Join(dir, "history.db")
}

func ConfigFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".cmdrrc"), nil
}

// LogFilePath returns the path to the application log file.
//   - macOS: ~/Library/Application Support/cmdr/cmdr.log
//   - Linux: $XDG_CONFIG_HOME/cmdr/cmdr.log or ~/.config/cmdr/cmdr.log
//   - Windows: %AppData%\cmdr\cmdr.log
func LogFilePath() string {
	return filepath.Join(AppDataDir(), "cmdr.log")
}

// SearchRoots resolves comma-separated search roots against base.
// Absolute roots are kept as they are; empty entries are dropped.
func SearchRoots(base string, list []string) []string {
	roots := make([]string, 0, len(list))
	for _, r := range list {
		if r == "" {
			continue
		}
		if !filepath.IsAbs(r) {
			r = filepath.Join(base, r)
		}
		roots = append(roots, filepath.Clean(r))
	}
	return roots
}
