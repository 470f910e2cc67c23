package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/footprint-tools/cmdr/internal/app"
	"github.com/footprint-tools/cmdr/internal/dispatcher"
	"github.com/footprint-tools/cmdr/internal/invocation"
	"github.com/footprint-tools/cmdr/internal/ui/style"
)

// globalFlags are only recognised before the command name.
type globalFlags struct {
	noColor bool
	noPager bool
	pager   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, argv []string, stderr io.Writer) int {
	flags, argv := extractGlobalFlags(argv)
	namespace, args := splitCommand(argv)

	// Enable styling if stdout is a terminal and --no-color is not set
	style.Init(term.IsTerminal(int(os.Stdout.Fd())) && !flags.noColor)

	opts := app.DefaultOptions()
	opts.PagerDisabled = flags.noPager
	opts.PagerOverride = flags.pager

	a, err := app.New(opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}
	defer func() { _ = a.Close() }()

	err = a.Invoke(ctx, namespace, args)
	if err != nil && err.Error() != "" {
		_, _ = fmt.Fprintln(stderr, err.Error())
	}
	return dispatcher.ExitCode(err)
}

func extractGlobalFlags(argv []string) (globalFlags, []string) {
	var f globalFlags
	for len(argv) > 0 {
		switch a := argv[0]; {
		case a == "--no-color":
			f.noColor = true
		case a == "--no-pager":
			f.noPager = true
		case strings.HasPrefix(a, "--pager="):
			f.pager = strings.TrimPrefix(a, "--pager=")
		default:
			return f, argv
		}
		argv = argv[1:]
	}
	return f, argv
}

// splitCommand takes the namespace from argv. "cmdr server --help" becomes
// server:help so descriptors answer their own help.
func splitCommand(argv []string) (string, []string) {
	if len(argv) == 0 {
		return "", nil
	}
	namespace, args := argv[0], argv[1:]
	if len(args) > 0 && slices.Contains(invocation.HelpMappings, args[0]) &&
		!slices.Contains(invocation.HelpMappings, namespace) {
		return namespace + ":" + invocation.HelpCommand, args[1:]
	}
	return namespace, args
}
