package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/flavortown/pkg/api"
	"github.com/vanderheijden86/flavortown/pkg/config"
	"github.com/vanderheijden86/flavortown/pkg/debug"
	"github.com/vanderheijden86/flavortown/pkg/metrics"
	"github.com/vanderheijden86/flavortown/pkg/render"
	"github.com/vanderheijden86/flavortown/pkg/version"
)

// app carries the state shared by every command of one invocation.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// Persistent flags.
	configPath string
	timings    bool

	cfg       config.Config
	styles    render.Styles
	errStyles render.Styles

	// tty is set when stdout is a terminal; interactive when stdin is too.
	tty         bool
	interactive bool
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		in:        in,
		out:       out,
		errOut:    errOut,
		cfg:       config.DefaultConfig(),
		styles:    render.NewStyles(lipgloss.NewRenderer(out)),
		errStyles: render.NewStyles(lipgloss.NewRenderer(errOut)),
	}
	_, a.tty = terminalFd(out)
	_, stdinTTY := terminalFd(in)
	a.interactive = a.tty && stdinTTY
	return a
}

// silentError is returned once the command has already explained the
// failure to the user; main exits non-zero without printing it again.
type silentError struct {
	err error
}

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flavortown",
		Short:         "CLI for Hack Club Flavortown",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug.Section(cmd.CommandPath())
			return a.loadConfig()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetVersionTemplate("flavortown {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flavortown/config.yaml)")
	pf.BoolVar(&a.timings, "timings", false, "print timing metrics as JSON to stderr")

	root.AddCommand(
		a.setupCmd(),
		a.whoamiCmd(),
		a.logoutCmd(),
		a.projectsCmd(),
		a.devlogsCmd(),
		a.storeCmd(),
	)
	return root
}

// execute runs the command tree with args.
func (a *app) execute(ctx context.Context, args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	if a.timings {
		if werr := render.WriteJSON(a.errOut, metrics.AllTimingStats()); werr != nil {
			debug.Log("writing timings: %v", werr)
		}
	}
	return err
}

func (a *app) loadConfig() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFrom(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	debug.Log("config loaded: base_url=%s sort=%s group=%v", a.cfg.BaseURL, a.cfg.Store.Sort, a.cfg.Store.Grouping())
	return nil
}

// writablePath is where setup and logout persist the configuration.
func (a *app) writablePath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	if p := config.ConfigPath(); p != "" {
		return p, nil
	}
	return "", errors.New("cannot determine the config directory; pass --config")
}

// client returns an API client, or prints the setup instructions when no
// key is configured.
func (a *app) client() (*api.Client, error) {
	key, err := a.cfg.RequireAPIKey()
	if err != nil {
		a.printAuthHelp()
		return nil, &silentError{err: err}
	}
	return api.New(a.cfg.BaseURL, key)
}

func (a *app) printAuthHelp() {
	s := a.errStyles
	fmt.Fprintln(a.errOut, s.Warning.Render("API Key not found!"))
	fmt.Fprintf(a.errOut, "Please run %s to configure your API key.\n", s.Link.Render("flavortown setup"))
	fmt.Fprintf(a.errOut, "You can get your API key by going to %s in Flavortown, generating it, and copying it.\n", s.Name.Render("Settings"))
}

// reportError prints a failed command's error.
func (a *app) reportError(err error) {
	var silent *silentError
	if errors.As(err, &silent) {
		return
	}
	fmt.Fprintln(a.errOut, a.errStyles.Danger.Render("Error: "+err.Error()))
	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintf(a.errOut, "Your API key was rejected. Run %s to configure a new one.\n", a.errStyles.Link.Render("flavortown setup"))
	}
}

// terminalFd returns the descriptor of v when it is a terminal.
func terminalFd(v any) (int, bool) {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}
