package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/campus/internal/app"
	"github.com/spf13/cobra"
)

// cli carries configuration from the root flags to the subcommands.
type cli struct {
	cfg    app.Config
	logger *slog.Logger
}

func main() {
	c := &cli{cfg: app.LoadConfig()}

	rootCmd := &cobra.Command{
		Use:   "campus",
		Short: "Command line client for the campus mini-app API",
		Long: `campus talks to the campus API the way the mini-app does: it
authenticates with a signed launch payload and prints responses as JSON.

The payload comes from --init-data, CAMPUS_INIT_DATA or the file named by
--init-data-file. Without one, only public endpoints work.

Examples:
  campus mock
  campus initdata sign --id 42 --first-name Ada > /tmp/init-data
  campus --init-data-file /tmp/init-data me`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logger = app.NewLogger(c.cfg, "campus-cli")
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfg.APIURL, "api-url", c.cfg.APIURL, "Base URL of the campus API")
	flags.StringVar(&c.cfg.InitData, "init-data", c.cfg.InitData, "Signed launch payload")
	flags.StringVar(&c.cfg.InitDataFile, "init-data-file", c.cfg.InitDataFile, "File holding the launch payload")
	flags.BoolVar(&c.cfg.WatchInitData, "watch-init-data", c.cfg.WatchInitData, "Watch the payload file instead of reading it per call")
	flags.Float64Var(&c.cfg.RateLimit, "rate-limit", c.cfg.RateLimit, "Maximum API calls per second (0 = unlimited)")
	flags.StringVar(&c.cfg.BotToken, "bot-token", c.cfg.BotToken, "Bot token for signing and checking payloads")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&c.cfg.LogFormat, "log-format", c.cfg.LogFormat, "Log format (json, text)")

	rootCmd.AddCommand(
		c.meCmd(),
		c.newsCmd(),
		c.hackathonsCmd(),
		c.clubsCmd(),
		c.shopCmd(),
		c.govCmd(),
		c.verifySchoolCmd(),
		c.checkInCmd(),
		c.adminCmd(),
		c.initDataCmd(),
		c.mockCmd(),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(1)
	}
}

// withClient runs fn with a client for the configured API and closes it
// afterwards.
func (c *cli) withClient(cmd *cobra.Command, fn func(ctx context.Context, client *app.Client) error) error {
	client, err := app.NewClient(c.cfg, c.logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			c.logger.Warn("close client", "error", err)
		}
	}()

	return fn(cmd.Context(), client)
}

// signIn bootstraps the session and fails when it ends without a user.
func signIn(ctx context.Context, client *app.Client) error {
	st := client.Session.Bootstrap(ctx)
	if st.User != nil {
		return nil
	}
	if st.Err != "" {
		return fmt.Errorf("sign in failed: %s", st.Err)
	}
	return errors.New("no launch payload configured, see --init-data")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
