package completions

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceInstructions returns shell-specific instructions for loading completions
func SourceInstructions(shell Shell, bin string) string {
	switch shell {
	case ShellBash, ShellZsh:
		return fmt.Sprintf(`eval "$(%s completions %s --script)"`, bin, shell)
	case ShellFish:
		return fmt.Sprintf(`%s completions fish --script | source`, bin)
	default:
		return ""
	}
}

// RcFile returns the rc file path for the given shell
func RcFile(shell Shell) string {
	switch shell {
	case ShellBash:
		return "~/.bashrc"
	case ShellZsh:
		return "~/.zshrc"
	case ShellFish:
		return "~/.config/fish/config.fish"
	default:
		return ""
	}
}

// bashCompletionDirs are where bash-completion itself is commonly installed.
var bashCompletionDirs = []string{
	"/usr/share/bash-completion",
	"/usr/local/share/bash-completion",
	"/opt/homebrew/share/bash-completion",
	"/etc/bash_completion.d",
}

// IsBashCompletionInstalled reports whether bash-completion is present, so
// the per-user auto-load directory is honoured.
func IsBashCompletionInstalled() bool {
	for _, dir := range bashCompletionDirs {
		if _, err := os.Stat(dir); err == nil {
			return true
		}
	}
	return false
}

// AutoInstallPath returns the path where completions can be auto-loaded from,
// or "" when shell has no such directory.
func AutoInstallPath(shell Shell, home, bin string, bashCompletion bool) string {
	if home == "" {
		return ""
	}
	switch shell {
	case ShellFish:
		// Fish always auto-loads from this directory
		return filepath.Join(home, ".config", "fish", "completions", bin+".fish")
	case ShellBash:
		if bashCompletion {
			return filepath.Join(home, ".local", "share", "bash-completion", "completions", bin)
		}
		return ""
	default:
		return ""
	}
}
