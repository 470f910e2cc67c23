package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/env"
	"github.com/footprint-tools/cmdr/internal/launch"
	"github.com/footprint-tools/cmdr/internal/script"
	"github.com/footprint-tools/cmdr/internal/spellcheck"
	"github.com/footprint-tools/cmdr/internal/usage"
)

const (
	DefaultPort    = 3000
	DefaultPidPath = "tmp/pids/server.pid"
	DefaultServer  = "caddy"
)

// KnownServers are the backends cmdr knows how to hand a host and port to.
var KnownServers = []string{"busybox", "caddy", "php", "python3", "ruby"}

// serverArgs builds the command line of a known backend.
var serverArgs = map[string]func(o ServerOptions) []string{
	"busybox": func(o ServerOptions) []string { return []string{"httpd", "-f", "-p", o.Address()} },
	"caddy": func(o ServerOptions) []string {
		if _, err := os.Stat(o.Config); err == nil {
			return []string{"run", "--config", o.Config}
		}
		return []string{"file-server", "--listen", o.Address()}
	},
	"php":     func(o ServerOptions) []string { return []string{"-S", o.Address()} },
	"python3": func(o ServerOptions) []string { return []string{"-m", "http.server", strconv.Itoa(o.Port), "--bind", o.Host} },
	"ruby":    func(o ServerOptions) []string { return []string{"-run", "-e", "httpd", ".", "-b", o.Host, "-p", strconv.Itoa(o.Port)} },
}

// ServerOptions is everything handed to the backend.
type ServerOptions struct {
	Server       string
	Port         int
	Host         string
	Config       string
	Environment  string
	Daemonize    bool
	Pid          string
	Caching      *bool
	EarlyHints   bool
	LogStdout    bool
	RestartCmd   string
	UserSupplied []string
}

// Address is "host:port".
func (o ServerOptions) Address() string {
	return o.Host + ":" + strconv.Itoa(o.Port)
}

// URL is the address the server is reachable at.
func (o ServerOptions) URL() string {
	return "http://" + o.Address()
}

// Env renders the options as variables for the backend process.
func (o ServerOptions) Env() []string {
	vars := []string{
		"PORT=" + strconv.Itoa(o.Port),
		"HOST=" + o.Host,
		env.Key + "=" + o.Environment,
		"CMDR_SERVER_CONFIG=" + o.Config,
		"CMDR_SERVER_PID=" + o.Pid,
		"CMDR_SERVER_RESTART=" + o.RestartCmd,
	}
	if o.Daemonize {
		vars = append(vars, "CMDR_SERVER_DAEMON=1")
	}
	if o.EarlyHints {
		vars = append(vars, "CMDR_SERVER_EARLY_HINTS=1")
	}
	return vars
}

// Server starts a local web server backend.
func Server(deps Deps) *command.Descriptor {
	d := command.New(command.Spec{
		Namespace:   "server",
		Summary:     "Start a local web server",
		Description: "Starts the configured backend (config key `server`) with the resolved host and port.",
		Aliases:     []string{"s"},
		Arguments: []command.Argument{
			{Name: "using", Description: "Backend to run (deprecated, use -u)", Optional: true},
		},
		Options: []command.Option{
			{Name: "port", Type: command.Int, Aliases: []string{"-p"}, Default: strconv.Itoa(DefaultPort), Banner: "port", Description: "Runs the server on the specified port."},
			{Name: "binding", Aliases: []string{"-b"}, Banner: "IP", Description: "Binds to the specified IP. Defaults to 'localhost' in development and '0.0.0.0' elsewhere."},
			{Name: "config", Aliases: []string{"-c"}, Banner: "file", Default: "server.conf", Description: "Uses a custom backend configuration."},
			{Name: "environment", Aliases: []string{"-e"}, Banner: "name", Description: "Specifies the environment to run under (development/test/production)."},
			{Name: "using", Aliases: []string{"-u"}, Banner: "name", Description: "Specifies the backend (" + strings.Join(KnownServers, "/") + ")."},
			{Name: "pid", Aliases: []string{"-P"}, Default: DefaultPidPath, Description: "Specifies the PID file."},
			{Name: "daemon", Type: command.Boolean, Aliases: []string{"-d"}, Description: "Runs the server as a daemon."},
			{Name: "dev_caching", Type: command.Boolean, Aliases: []string{"-C"}, Description: "Specifies whether to perform caching in development."},
			{Name: "restart", Type: command.Boolean, Hidden: true},
			{Name: "early_hints", Type: command.Boolean, Description: "Enables HTTP/2 early hints."},
		},
		Banner: func(string) string {
			return command.Executable + " server [" + strings.Join(KnownServers, "/") + "] [options]"
		},
		Perform: func(c *command.Context) error { return performServer(c, deps) },
	})

	d.BeforeCommandIf(command.Except("help"), func(c *command.Context) command.Outcome {
		using := c.Arg("using")
		if using != "" {
			c.Warn("DEPRECATION WARNING: Passing the server name as a regular argument is deprecated. Please use the -u option instead.")
		} else if using = c.Options.String("using"); using == "" {
			if using = c.Config["server"]; using == "" {
				using = DefaultServer
			}
		}
		c.Put("using", using)
		c.Put("log_stdout", !c.Options.Bool("daemon") && serverEnvironment(c) == env.DefaultEnvironment)
		return command.Continue
	})

	return d
}

func serverEnvironment(c *command.Context) string {
	if e := c.Options.String("environment"); e != "" {
		return e
	}
	return c.Environment()
}

func performServer(c *command.Context, deps Deps) error {
	root, err := deps.root()
	if err != nil {
		return err
	}

	opts := buildServerOptions(c, root)
	if err := prepareServer(c, root, opts); err != nil {
		return err
	}
	if err := env.SetEnvironment(c.Env, opts.Environment); err != nil {
		return err
	}

	if !launch.Available(deps.Launcher, opts.Server) {
		return usage.ExternalUnavailable(serverSuggestion(opts.Server))
	}

	c.Sayf("=> Booting %s", opts.Server)
	c.Sayf("=> %s %s application starting in %s %s", command.Executable, deps.Version(), opts.Environment, opts.URL())
	c.Sayf("=> Run `%s server --help` for more startup options", command.Executable)

	args := []string{}
	if build, ok := serverArgs[opts.Server]; ok {
		args = build(opts)
	}

	c.Logger.Info("server: starting %s %v", opts.Server, args)
	code, err := deps.Launcher.Run(c.Ctx, launch.Process{
		Name:   opts.Server,
		Args:   args,
		Env:    script.MergeEnv(c.Env.Environ(), opts.Env()...),
		Dir:    root,
		Stdin:  c.In,
		Stdout: c.Out,
		Stderr: c.Err,
	})
	if !opts.Daemonize {
		c.Say("Exiting")
	}
	if err != nil {
		return fmt.Errorf("server %s: %w", opts.Server, err)
	}
	if code != 0 {
		return usage.CommandFailed(code, "")
	}
	return nil
}

func buildServerOptions(c *command.Context, root string) ServerOptions {
	environment := serverEnvironment(c)
	using, _ := c.Value("using").(string)
	logStdout, _ := c.Value("log_stdout").(bool)

	opts := ServerOptions{
		Server:       using,
		Port:         serverPort(c),
		Host:         serverHost(c, environment),
		Config:       resolvePath(root, c.Options.String("config")),
		Environment:  environment,
		Daemonize:    c.Options.Bool("daemon"),
		Pid:          resolvePath(root, c.Options.String("pid")),
		EarlyHints:   c.Options.Bool("early_hints"),
		LogStdout:    logStdout,
		UserSupplied: userSupplied(c),
	}
	if c.Options.IsSet("dev_caching") {
		caching := c.Options.Bool("dev_caching")
		opts.Caching = &caching
	}

	restart := []string{command.Executable, "server"}
	for _, arg := range c.Raw {
		if arg != "--restart" {
			restart = append(restart, arg)
		}
	}
	opts.RestartCmd = strings.Join(append(restart, "--restart"), " ")
	return opts
}

func serverPort(c *command.Context) int {
	if c.Options.IsSet("port") {
		return c.Options.Int("port")
	}
	if p, err := strconv.Atoi(c.Env.Get("PORT")); err == nil && p > 0 {
		return p
	}
	return DefaultPort
}

func serverHost(c *command.Context, environment string) string {
	if b := c.Options.String("binding"); b != "" {
		return b
	}
	if h := c.Env.Get("HOST"); h != "" {
		return h
	}
	if environment == env.DefaultEnvironment {
		return "localhost"
	}
	return "0.0.0.0"
}

// userSupplied lists the server settings the user set explicitly, as opposed
// to defaults, under the names the backend sees.
func userSupplied(c *command.Context) []string {
	rename := map[string]string{
		"port":        "Port",
		"binding":     "Host",
		"dev_caching": "caching",
		"daemon":      "daemonize",
	}

	var out []string
	add := func(name string) {
		for _, existing := range out {
			if existing == name {
				return
			}
		}
		out = append(out, name)
	}

	for _, name := range c.Options.Explicit() {
		if renamed, ok := rename[name]; ok {
			name = renamed
		}
		add(name)
	}
	if c.Env.Get("HOST") != "" {
		add("Host")
	}
	if c.Env.Get("PORT") != "" {
		add("Port")
	}
	return out
}

// prepareServer creates tmp directories, applies --[no-]dev-caching and
// removes a stale pid file on restart.
func prepareServer(c *command.Context, root string, opts ServerOptions) error {
	for _, dir := range []string{"tmp/cache", "tmp/pids", "tmp/sockets"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if opts.Caching != nil {
		marker := filepath.Join(root, "tmp", "caching-dev.txt")
		if *opts.Caching {
			if err := os.WriteFile(marker, nil, 0644); err != nil {
				return err
			}
			c.Say("Development mode is now being cached.")
		} else {
			if err := os.Remove(marker); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			c.Say("Development mode is no longer being cached.")
		}
	}

	if c.Options.Bool("restart") {
		if err := os.Remove(opts.Pid); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove pid file: %w", err)
		}
	}
	return nil
}

func serverSuggestion(server string) string {
	for _, known := range KnownServers {
		if known == server {
			return fmt.Sprintf("Could not load server %q. Maybe you need to install it?\n\nRun `%s server --help` for more options.", server, command.Executable)
		}
	}
	suggestions := spellcheck.Suggest(server, KnownServers)
	if len(suggestions) == 0 {
		return fmt.Sprintf("Could not find server %q.\nRun `%s server --help` for more options.", server, command.Executable)
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = strconv.Quote(s)
	}
	return fmt.Sprintf("Could not find server %q. Maybe you meant [%s]?\nRun `%s server --help` for more options.",
		server, strings.Join(quoted, ", "), command.Executable)
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
