package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/idilsaglam/tada/internal/cli"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/seed"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

const longHelp = `tada - a small todo list for the terminal.

An empty list is seeded once from a remote todo feed (or a local JSON file).
Settings come from flags, TADA_* environment variables (a .env file is read
too), and ~/.tada/config.toml, in that order of precedence. Theme and display
name changes in the config file apply while the app is running.`

var exampleUsage = strings.TrimSpace(`
  tada
  tada --theme dark --name Ada --limit 10
  tada --seed-file ./todos.json
  tada script < commands.txt
  tada fetch --limit 3 --skip 0
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app carries the state shared by all commands once flags are parsed.
type app struct {
	cfg     config.Config
	cfgPath string
	changed map[string]bool
}

// usageError marks failures caused by bad input rather than a failed operation.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// usageArgs reports positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func exitCodeFor(err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		return cli.ExitUsage
	}
	return cli.ExitError
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{cfg: config.DefaultConfig()}
	exitCode := cli.ExitOK

	root := &cobra.Command{
		Use:           "tada",
		Short:         "A small todo list for the terminal",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default $HOME/.tada/config.toml)")
	pf.StringVar(&a.cfg.SeedURL, "seed-url", a.cfg.SeedURL, "remote todo list used to seed an empty list")
	pf.StringVar(&a.cfg.SeedFile, "seed-file", a.cfg.SeedFile, "seed from a local JSON file instead of the remote list")
	pf.IntVar(&a.cfg.SeedLimit, "limit", a.cfg.SeedLimit, "number of todos to seed")
	pf.IntVar(&a.cfg.SeedSkip, "skip", a.cfg.SeedSkip, "offset into the remote list (-1 for random)")
	pf.DurationVar(&a.cfg.SeedTimeout, "timeout", a.cfg.SeedTimeout, "seed request timeout")
	pf.DurationVar(&a.cfg.SeedStaleTime, "stale-time", a.cfg.SeedStaleTime, "how long a fetched page is reused")
	pf.BoolVar(&a.cfg.NoSeed, "no-seed", a.cfg.NoSeed, "start with an empty list")
	pf.StringVar(&a.cfg.Theme, "theme", a.cfg.Theme, "light or dark")
	pf.StringVar(&a.cfg.DisplayName, "name", a.cfg.DisplayName, "display name shown in the greeting")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "debug, info, warn or error")
	pf.StringVar(&a.cfg.LogFile, "log-file", a.cfg.LogFile, "append logs to this file")

	var seedScript bool
	script := &cobra.Command{
		Use:   "script [file]",
		Short: "Apply commands from a file (or stdin) to a fresh list",
		Long:  "Apply line-oriented commands to a fresh list. A script line reading `help` prints the command reference.",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.runScript(cmd.Context(), args, seedScript, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			exitCode = code
			return err
		},
	}
	script.Flags().BoolVar(&seedScript, "seed", false, "seed the list before running the script")

	fetch := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and print one page of seed todos",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFetch(cmd.Context(), cmd.OutOrStdout())
		},
	}

	root.AddCommand(script, fetch)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		ui.For(a.cfg.Prefs().Theme).Fail(stderr, err.Error())
		if exitCode == cli.ExitOK {
			exitCode = exitCodeFor(err)
		}
	}
	return exitCode
}

// loadConfig layers the config file, .env and TADA_* variables under the
// flags that were set explicitly.
func (a *app) loadConfig(cmd *cobra.Command) error {
	a.changed = map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { a.changed[f.Name] = true })

	if a.cfgPath == "" {
		a.cfgPath = config.DefaultConfigPath()
	}
	if a.cfgPath != "" && config.FileExists(a.cfgPath) {
		fc, err := config.LoadFileConfig(a.cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := config.ApplyFileConfig(&a.cfg, fc, a.changed); err != nil {
			return usageError{fmt.Errorf("config %s: %w", a.cfgPath, err)}
		}
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	if err := config.ApplyEnvConfig(&a.cfg, a.changed); err != nil {
		return usageError{err}
	}
	if err := a.cfg.Validate(); err != nil {
		return usageError{err}
	}
	return nil
}

func (a *app) logger(quiet bool) (zerolog.Logger, io.Closer, error) {
	return logging.New(logging.Options{Level: a.cfg.LogLevel, File: a.cfg.LogFile, Quiet: quiet})
}

func (a *app) source() seed.Source {
	if a.cfg.SeedFile != "" {
		return seed.FileSource{Path: a.cfg.SeedFile}
	}
	return seed.NewClient(seed.ClientConfig{
		URL:       a.cfg.SeedURL,
		Timeout:   a.cfg.SeedTimeout,
		StaleTime: a.cfg.SeedStaleTime,
	})
}

func (a *app) page() seed.Page {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return seed.Page{Limit: a.cfg.SeedLimit, Skip: a.cfg.ResolveSkip(rnd)}
}

func (a *app) newSession(ctx context.Context) *store.Session {
	return store.NewSession(store.WithPrefs(a.cfg.Prefs()), store.WithParent(ctx))
}

func (a *app) runTUI(ctx context.Context) error {
	log, closer, err := a.logger(true)
	if err != nil {
		return err
	}
	defer closer.Close()

	sess := a.newSession(ctx)
	defer sess.Close()
	log = log.With().Str("session", sess.ID).Logger()
	log.Info().Str("theme", string(sess.Prefs.Theme())).Bool("seed", !a.cfg.NoSeed).Msg("starting")

	if a.cfgPath != "" {
		w := config.NewWatcher(a.cfgPath, log, func(fc config.FileConfig) {
			applyLivePrefs(sess, fc, a.changed)
		})
		go func() {
			if err := w.Run(sess.Context()); err != nil {
				log.Warn().Err(err).Msg("config watcher stopped")
			}
		}()
	}

	var seeder *seed.Seeder
	if !a.cfg.NoSeed {
		seeder = seed.NewSeeder(a.source(), sess, a.page(), log)
	}
	return tui.Run(sess.Context(), sess, seeder, log)
}

// applyLivePrefs pushes reloaded theme and name into the running session,
// unless a flag pinned them.
func applyLivePrefs(sess *store.Session, fc config.FileConfig, changed map[string]bool) {
	cfg := config.Config{Theme: string(sess.Prefs.Theme()), DisplayName: sess.Prefs.DisplayName()}
	if err := config.ApplyFileConfig(&cfg, fc, changed); err != nil {
		return
	}
	if t, ok := model.ParseTheme(cfg.Theme); ok {
		sess.Prefs.SetTheme(t)
	}
	sess.Prefs.SetDisplayName(cfg.DisplayName)
}

func (a *app) runScript(ctx context.Context, args []string, seedFirst bool, stdin io.Reader, out, errOut io.Writer) (int, error) {
	log, closer, err := a.logger(false)
	if err != nil {
		return cli.ExitError, err
	}
	defer closer.Close()

	in := stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return cli.ExitError, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	sess := a.newSession(ctx)
	defer sess.Close()
	log = log.With().Str("session", sess.ID).Logger()

	if seedFirst {
		st := seed.NewSeeder(a.source(), sess, a.page(), log).Run(ctx)
		if st.Failed() {
			return cli.ExitError, fmt.Errorf("seed: %w", st.Err)
		}
	}
	return cli.New(sess, out, errOut).RunScript(in), nil
}

func (a *app) runFetch(ctx context.Context, out io.Writer) error {
	p := a.page()
	resp, err := a.source().FetchTodos(ctx, p)
	if err != nil {
		return fmt.Errorf("fetch todos: %w", err)
	}

	th := ui.For(a.cfg.Prefs().Theme)
	lines := []string{
		th.Title.Render("Remote todos") + th.Muted.Render(fmt.Sprintf("  skip %d  limit %d  total %d", resp.Skip, p.Limit, resp.Total)),
		"",
	}
	for i, t := range resp.Todos {
		lines = append(lines, th.ItemLine(i+1, t.Todo, t.Completed))
	}
	if len(resp.Todos) == 0 {
		lines = append(lines, th.Muted.Render("no items"))
	}
	fmt.Fprintln(out, th.Panel(lines))
	return nil
}
