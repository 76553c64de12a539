package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hitoshi/contentadmin/internal/config"
	"github.com/hitoshi/contentadmin/internal/model"
)

// NewRootCommand はcontentadminのコマンドツリーを構築する。
// wはログの出力先。サブコマンドなしで実行した場合はserveとして起動する。
func NewRootCommand(w io.Writer) *cobra.Command {
	serve := newServeCommand(w)

	root := &cobra.Command{
		Use:           "contentadmin",
		Short:         "Content administration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		newWorkerCommand(w),
		newMigrateCommand(w),
		newHealthcheckCommand(),
		newExportCommand(w),
	)

	return root
}

// withConfig は初期化を済ませてから本体を呼び出すRunEを返す。
// SIGINTまたはSIGTERMを受信するとctxをキャンセルする。
func withConfig(w io.Writer, name string, run func(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := Init(w)
		if err != nil {
			return fmt.Errorf("initialization failed: %w", err)
		}

		slog.Info("starting application",
			slog.String("command", name),
			slog.String("port", cfg.ServerPort),
			slog.String("base_url", cfg.BaseURL),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return run(ctx, cmd, cfg)
	}
}

func newServeCommand(w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin API server",
		Args:  cobra.NoArgs,
		RunE: withConfig(w, "serve", func(ctx context.Context, _ *cobra.Command, cfg *config.Config) error {
			return runServe(ctx, cfg)
		}),
	}
}

func newWorkerCommand(w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run background jobs (expired session cleanup)",
		Args:  cobra.NoArgs,
		RunE: withConfig(w, "worker", func(ctx context.Context, _ *cobra.Command, cfg *config.Config) error {
			return runWorker(ctx, cfg)
		}),
	}
}

func newMigrateCommand(w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: withConfig(w, "migrate", func(_ context.Context, _ *cobra.Command, cfg *config.Config) error {
			return runMigrate(cfg)
		}),
	}
}

// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
func newHealthcheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe the local /health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port := os.Getenv("SERVER_PORT")
			if port == "" {
				port = "8080"
			}
			return runHealthcheck(port)
		},
	}
}

func newExportCommand(w io.Writer) *cobra.Command {
	var opts ExportOptions

	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Write a CSV export of one entity kind",
		Long: "Fetches the given kind from the database and writes it as CSV.\n" +
			"Kinds: " + kindList() + ".",
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := model.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown kind %q (want one of %s)", args[0], kindList())
			}
			if kind == model.KindEventSignups && opts.EventID == "" {
				return fmt.Errorf("--event is required for %s", kind)
			}
			opts.Kind = kind
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// CSVを標準出力に書く場合、ログは標準エラーに逃がす
			logW := w
			if opts.Out == "" {
				logW = cmd.ErrOrStderr()
			}
			return withConfig(logW, "export", func(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
				return runExport(ctx, cfg, opts, cmd.OutOrStdout())
			})(cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Query, "q", "", "search query applied before export")
	cmd.Flags().StringVar(&opts.EventID, "event", "", "event id (event_signups only)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file or directory (default stdout)")

	return cmd
}

func kindList() string {
	kinds := model.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
