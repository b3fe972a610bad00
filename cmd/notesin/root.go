package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"example.com/notesin/internal/account"
	"example.com/notesin/internal/client"
	"example.com/notesin/internal/config"
	"example.com/notesin/internal/logging"
	"example.com/notesin/internal/notebook"
	"example.com/notesin/internal/notify"
	"example.com/notesin/internal/session"
	"example.com/notesin/internal/ui/app"
)

var (
	verbose    bool
	apiURL     string
	timeout    time.Duration
	configPath string
)

// runtime is what PersistentPreRunE prepares for every command.
type runtime struct {
	cfg    config.ClientConfig
	log    zerolog.Logger
	closer io.Closer
	api    *client.Client
	sess   *session.Holder
}

var rt runtime

var rootCmd = &cobra.Command{
	Use:   "notesin",
	Short: "Terminal client for the Notes In service",
	Long: `notesin keeps short text notes on a remote Notes In server.
Run it without arguments for the full-screen interface, or use the
subcommands to sign up, log in and manage notes from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt.closer != nil {
			_ = rt.closer.Close()
		}
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		board := &notify.Board{}
		accounts := account.New(rt.api, rt.sess, board, account.WithLogger(rt.log))
		nb := notebook.New(rt.api, rt.sess, board, notebook.WithLogger(rt.log))

		m := app.New(app.Deps{
			Ctx:      cmd.Context(),
			Accounts: accounts,
			Notebook: nb,
			Board:    board,
			Splash:   rt.cfg.Splash,
			Log:      rt.log,
		})

		rt.log.Info().Str("api", rt.api.BaseURL()).Msg("starting ui")
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		rt.sess.Clear()
		return nil
	},
}

// setup resolves the client settings (defaults, file, env, then flags) and
// builds the logger and API client. The full-screen UI logs to a file since
// it owns the terminal; subcommands log to stderr.
func setup(cmd *cobra.Command) error {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = apiURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = timeout
	}

	opts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	if cmd.HasParent() {
		opts = logging.Options{Level: "error", Out: cmd.ErrOrStderr(), Console: true}
	}
	if verbose {
		opts.Level = "debug"
	}
	log, closer, err := logging.New(opts)
	if err != nil {
		return err
	}

	api, err := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout), client.WithLogger(log))
	if err != nil {
		_ = closer.Close()
		return err
	}

	rt = runtime{cfg: cfg, log: log, closer: closer, api: api, sess: session.NewHolder()}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

// report prints err unless the user already saw it as a notice.
func report(w io.Writer, err error) {
	var shown shownError
	if errors.As(err, &shown) {
		return
	}
	fmt.Fprintln(w, err)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", config.DefaultAPIURL, "Base URL of the notes service")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (0 waits indefinitely)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default ~/.config/notesin/config.yaml)")
}

// shownError is a command failure already printed as a notice.
type shownError struct{ err error }

func (e shownError) Error() string { return e.err.Error() }
func (e shownError) Unwrap() error { return e.err }

// noticeWriter prints notices to a command's own streams and remembers
// whether any went out.
type noticeWriter struct {
	notify.Writer
	posted bool
}

func notifier(cmd *cobra.Command) *noticeWriter {
	return &noticeWriter{Writer: notify.Writer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}}
}

func (w *noticeWriter) Notify(n notify.Notice) {
	w.posted = true
	w.Writer.Notify(n)
}

// settle marks err as shown when a notice was printed for it.
func (w *noticeWriter) settle(err error) error {
	if err == nil || !w.posted {
		return err
	}
	return shownError{err: err}
}
