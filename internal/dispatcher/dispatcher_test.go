package dispatcher

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/log"
	"github.com/footprint-tools/cmdr/internal/registry"
	"github.com/footprint-tools/cmdr/internal/testutil"
	"github.com/footprint-tools/cmdr/internal/usage"
)

type fallbackCall struct {
	namespace string
	args      []string
	cfg       map[string]string
}

type recordingFallback struct {
	calls []fallbackCall
	err   error
}

func (f *recordingFallback) Perform(_ context.Context, ns string, args []string, cfg map[string]string) error {
	f.calls = append(f.calls, fallbackCall{namespace: ns, args: args, cfg: cfg})
	return f.err
}

func newRegistry(t *testing.T) *registry.Registry {
	return registry.New(registry.WithRoots(t.TempDir()), registry.WithLogger(log.NopLogger{}))
}

func newDispatcher(reg Resolver, fb Fallback, out *bytes.Buffer, opts ...Option) *Dispatcher {
	rt := command.Runtime{Out: out, Err: out, Env: env.NewMap(nil), Logger: log.NopLogger{}}
	return New(reg, fb, append([]Option{WithRuntime(rt)}, opts...)...)
}

func versionDescriptor(version string) *command.Descriptor {
	return command.New(command.Spec{
		Namespace: "version",
		Summary:   "Show the version",
		Perform: func(c *command.Context) error {
			c.Sayf("cmdr %s", version)
			return nil
		},
	})
}

func TestInvoke_ScenarioVersion(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister(versionDescriptor("1.2.3"))
	fb := &recordingFallback{}

	for _, ns := range []string{"version", "-v", "--version"} {
		t.Run(ns, func(t *testing.T) {
			var out bytes.Buffer
			err := newDispatcher(reg, fb, &out).Invoke(context.Background(), ns, nil, nil)
			require.NoError(t, err)
			require.Equal(t, 0, ExitCode(err))
			require.Equal(t, "cmdr 1.2.3\n", out.String())
		})
	}
	require.Empty(t, fb.calls)
}

func TestInvoke_ScenarioUnknownReachesFallbackUntouched(t *testing.T) {
	fb := &recordingFallback{}
	cfg := map[string]string{"k": "v"}

	err := newDispatcher(newRegistry(t), fb, &bytes.Buffer{}).
		Invoke(context.Background(), "nonexistent:thing", []string{"a", "--b"}, cfg)
	require.NoError(t, err)

	require.Len(t, fb.calls, 1)
	require.Equal(t, "nonexistent:thing", fb.calls[0].namespace)
	require.Equal(t, []string{"a", "--b"}, fb.calls[0].args)
	require.Equal(t, cfg, fb.calls[0].cfg)
}

func TestInvoke_DescriptorWithoutEntryFallsBack(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister(command.New(command.Spec{
		Namespace: "encrypted",
		Commands: map[string]command.Entry{
			"show": {Perform: func(*command.Context) error { return nil }},
		},
	}))
	fb := &recordingFallback{}

	require.NoError(t, newDispatcher(reg, fb, &bytes.Buffer{}).Invoke(context.Background(), "encrypted:rotate", nil, nil))
	require.Len(t, fb.calls, 1)
	require.Equal(t, "encrypted:rotate", fb.calls[0].namespace)
}

func TestInvoke_ScenarioMissingArgument(t *testing.T) {
	reg := newRegistry(t)
	performed := false
	reg.MustRegister(command.New(command.Spec{
		Namespace: "encrypted:edit",
		Arguments: []command.Argument{{Name: "file_path"}},
		Perform: func(*command.Context) error {
			performed = true
			return nil
		},
	}))

	err := newDispatcher(reg, &recordingFallback{}, &bytes.Buffer{}).Invoke(context.Background(), "encrypted:edit", nil, nil)
	require.Error(t, err)
	require.Equal(t, 2, ExitCode(err))
	require.Contains(t, err.Error(), "Usage: cmdr encrypted:edit FILE_PATH")
	require.False(t, performed)
}

func TestInvoke_HaltIsSuccess(t *testing.T) {
	reg := newRegistry(t)
	d := command.New(command.Spec{
		Namespace: "job",
		Perform:   func(*command.Context) error { t.Fatal("perform must not run"); return nil },
	}).BeforeCommand(func(*command.Context) command.Outcome { return command.Halt })
	reg.MustRegister(d)

	err := newDispatcher(reg, &recordingFallback{}, &bytes.Buffer{}).Invoke(context.Background(), "job", nil, nil)
	require.NoError(t, err)
}

func TestInvoke_HelpRunsHookChain(t *testing.T) {
	reg := newRegistry(t)
	hooked := 0
	reg.MustRegister(command.New(command.Spec{
		Namespace: "help",
		Perform: func(c *command.Context) error {
			c.Say("listing")
			return nil
		},
	}).BeforeCommand(func(*command.Context) command.Outcome {
		hooked++
		return command.Continue
	}))

	for _, ns := range []string{"", "help", "--help", "-h", "-?"} {
		var out bytes.Buffer
		require.NoError(t, newDispatcher(reg, &recordingFallback{}, &out).Invoke(context.Background(), ns, nil, nil))
		require.Equal(t, "listing\n", out.String(), "namespace %q", ns)
	}
	require.Equal(t, 5, hooked)
}

func TestInvoke_NoFallbackIsUnknownCommand(t *testing.T) {
	err := newDispatcher(newRegistry(t), nil, &bytes.Buffer{}).Invoke(context.Background(), "deploy", nil, nil)
	var ue *usage.Error
	require.True(t, errors.As(err, &ue))
	require.Equal(t, usage.ErrUnknownCommand, ue.Kind)
}

func TestInvoke_ResolveIsIdempotent(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister(versionDescriptor("1"))
	d := newDispatcher(reg, &recordingFallback{}, &bytes.Buffer{})

	require.NoError(t, d.Invoke(context.Background(), "version", nil, nil))
	size := reg.Len()
	require.NoError(t, d.Invoke(context.Background(), "version", nil, nil))
	require.Equal(t, size, reg.Len())
}

func TestInvoke_RecordsHistory(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister(versionDescriptor("1"))
	hist := testutil.NewTestStore(t)

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := start
	clock := func() time.Time {
		now := tick
		tick = tick.Add(250 * time.Millisecond)
		return now
	}
	ids := []string{"run-1", "run-2"}
	nextID := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	fb := &recordingFallback{err: usage.CommandFailed(3, "boom")}
	d := newDispatcher(reg, fb, &bytes.Buffer{}, WithHistory(hist), WithClock(clock), WithIDs(nextID))

	require.NoError(t, d.Invoke(context.Background(), "version", []string{"--short"}, nil))
	require.Error(t, d.Invoke(context.Background(), "db:seed", nil, nil))

	runs, err := hist.Recent(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byID := map[string]domain.Run{}
	for _, r := range runs {
		byID[r.ID] = r
	}
	require.True(t, byID["run-1"].Resolved)
	require.Equal(t, 0, byID["run-1"].ExitCode)
	require.Equal(t, []string{"--short"}, byID["run-1"].Args)
	require.Equal(t, 250*time.Millisecond, byID["run-1"].Duration)
	require.False(t, byID["run-2"].Resolved)
	require.Equal(t, 3, byID["run-2"].ExitCode)
	require.Equal(t, "seed", byID["run-2"].Command)
}

func TestInvoke_RunIDReachesCommand(t *testing.T) {
	reg := newRegistry(t)
	var seen string
	reg.MustRegister(command.New(command.Spec{Namespace: "job", Perform: func(c *command.Context) error {
		seen = c.RunID
		return nil
	}}))

	d := newDispatcher(reg, nil, &bytes.Buffer{})
	require.NoError(t, d.Invoke(context.Background(), "job", nil, nil))
	require.Len(t, seen, 36)
	require.Equal(t, 4, strings.Count(seen, "-"))
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(errors.New("plain")))
	require.Equal(t, 2, ExitCode(usage.MissingArgument("x", "")))
	require.Equal(t, 7, ExitCode(usage.CommandFailed(7, "")))
}
