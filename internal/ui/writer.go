// Package ui holds terminal output helpers: the command output writer with
// optional paging, and (in subpackages) styling and the interactive picker.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/launch"
)

// Writer implements domain.OutputWriter. Long output can be sent through a
// pager when the destination is a terminal.
type Writer struct {
	out           io.Writer
	pagerDisabled bool
	pagerOverride string
	configGetter  func(string) (string, bool)
	envGetter     func(string) string
	launcher      launch.Launcher
	isTerminal    func(io.Writer) bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

func WithPagerDisabled() WriterOption {
	return func(w *Writer) { w.pagerDisabled = true }
}

// WithPagerOverride sets the pager command, ahead of config and $PAGER.
func WithPagerOverride(cmd string) WriterOption {
	return func(w *Writer) { w.pagerOverride = cmd }
}

func WithConfigGetter(fn func(string) (string, bool)) WriterOption {
	return func(w *Writer) { w.configGetter = fn }
}

func WithEnvGetter(fn func(string) string) WriterOption {
	return func(w *Writer) { w.envGetter = fn }
}

func WithLauncher(l launch.Launcher) WriterOption {
	return func(w *Writer) { w.launcher = l }
}

// WithTerminalCheck replaces TTY detection, for tests.
func WithTerminalCheck(fn func(io.Writer) bool) WriterOption {
	return func(w *Writer) { w.isTerminal = fn }
}

// NewWriter creates a Writer on stdout.
func NewWriter(opts ...WriterOption) *Writer {
	return NewWriterTo(os.Stdout, opts...)
}

// NewWriterTo creates a Writer on out.
func NewWriterTo(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		out:        out,
		envGetter:  os.Getenv,
		launcher:   launch.Exec{},
		isTerminal: isTerminal,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) Write(p []byte) (n int, err error) {
	return w.out.Write(p)
}

func (w *Writer) Printf(format string, args ...any) (int, error) {
	return fmt.Fprintf(w.out, format, args...)
}

func (w *Writer) Println(args ...any) (int, error) {
	return fmt.Fprintln(w.out, args...)
}

// Pager displays content through a pager if appropriate, falling back to a
// plain write whenever paging is off or the pager fails.
func (w *Writer) Pager(content string) {
	pager := w.pagerCommand()
	if pager == "" || pager == "cat" {
		_, _ = fmt.Fprint(w.out, content)
		return
	}

	parts := strings.Fields(pager)
	code, err := w.launcher.Run(context.Background(), launch.Process{
		Name:   parts[0],
		Args:   parts[1:],
		Stdin:  strings.NewReader(content),
		Stdout: w.out,
		Stderr: os.Stderr,
	})
	if err != nil || code != 0 {
		_, _ = fmt.Fprint(w.out, content)
	}
}

// pagerCommand resolves the pager: disabled or not a TTY, then the override,
// the "pager" config key, $PAGER and finally less.
func (w *Writer) pagerCommand() string {
	if w.pagerDisabled || !w.isTerminal(w.out) {
		return ""
	}
	if w.pagerOverride != "" {
		return w.pagerOverride
	}
	if w.configGetter != nil {
		if p, ok := w.configGetter("pager"); ok && p != "" {
			return p
		}
	}
	if w.envGetter != nil {
		if p := w.envGetter("PAGER"); p != "" {
			return p
		}
	}
	return "less -FRSX"
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var _ domain.OutputWriter = (*Writer)(nil)
