// Package main provides padocactl, the terminal client for the padoca backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivens03/microservices-padoca/internal/catalog"
	"github.com/ivens03/microservices-padoca/internal/orders"
	"github.com/ivens03/microservices-padoca/internal/session"
	"github.com/ivens03/microservices-padoca/pkg/config"
	"github.com/ivens03/microservices-padoca/pkg/database"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// localSessionID is the single session slot of the terminal client
const localSessionID = "padocactl"

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	backend  string
	dbPath   string
	logLevel string
	asJSON   bool
}

// app holds the wired components of one command run
type app struct {
	out       io.Writer
	asJSON    bool
	cfg       *config.Config
	log       *zap.Logger
	client    *padoca.Client
	sessions  *session.Manager
	catalog   *catalog.Cache
	lifecycle *orders.Lifecycle
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "padocactl",
		Short: "Terminal client for the padoca bakery backend",
		Long: `Browse the menu, watch the order board and check stock from a terminal.

Examples:
  padocactl login --email ana@padoca.com --password 123
  padocactl menu --category 2
  padocactl board watch --interval 10s
  padocactl board advance 42
  padocactl stock critical --json
`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "Backend base URL (default from BACKEND_BASE_URL)")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "session-db", "", "SQLite file holding the local session (default from DB_SQLITE_PATH)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level")
	cmd.PersistentFlags().BoolVar(&flags.asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(
		loginCmd(flags),
		logoutCmd(flags),
		whoamiCmd(flags),
		menuCmd(flags),
		boardCmd(flags),
		stockCmd(flags),
		versionCmd(),
	)
	return cmd
}

// newApp loads the configuration, applies flag overrides and wires the components
func newApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	cfg, err := config.Load("padocactl")
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if flags.backend != "" {
		cfg.Backend.BaseURL = flags.backend
	}
	if flags.dbPath != "" {
		cfg.DB.SQLitePath = flags.dbPath
	}
	cfg.Log.Level = flags.logLevel

	logger.InitLogger(cfg)
	log := logger.GetLogger()

	db, err := database.Open(&cfg.DB, &session.Session{})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	client := padoca.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log.Named("backend"))
	return &app{
		out:       cmd.OutOrStdout(),
		asJSON:    flags.asJSON,
		cfg:       cfg,
		log:       log,
		client:    client,
		sessions:  session.NewManager(client, session.NewGormStore(db), cfg.Session.DefaultTTL, log.Named("session")),
		catalog:   catalog.New(client, log.Named("catalog")),
		lifecycle: orders.NewLifecycle(client, log.Named("orders")),
	}, nil
}

// current returns the stored session or a hint to log in
func (a *app) current(ctx context.Context) (*session.Session, error) {
	sess, err := a.sessions.Current(ctx, localSessionID)
	if session.IsMissing(err) {
		return nil, fmt.Errorf("not logged in, run 'padocactl login' first: %w", err)
	}
	return sess, err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "padocactl", version)
		},
	}
}
