package commands

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/sqlsentry/sqlsentry/internal/cli/config"
	"github.com/sqlsentry/sqlsentry/internal/cli/output"
	"github.com/sqlsentry/sqlsentry/pkg/lint"
)

// watchDebounce coalesces editor write bursts into one re-lint.
const watchDebounce = 250 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &LintOptions{}

	cmd := &cobra.Command{
		Use:   "watch <path>...",
		Short: "Re-lint SQL files as they change",
		Long: `Watch files and directories, re-linting SQL files whenever they are
written. Intended for local development alongside an editor; press
Ctrl-C to stop. Unlike lint, watch never exits non-zero on findings.`,
		Example: `  # Watch a migrations directory
  sqlsentry watch ./migrations`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity to display: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.FromContext(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, arg := range args {
		if err := watcher.Add(arg); err != nil {
			return err
		}
		logger.Debug("watching", "path", arg)
	}

	session := lint.NewSession(buildLintConfig(cfg, opts))
	session.SetLogger(logger)

	relint := func() {
		paths := expandPaths(args, logger)
		if len(paths) == 0 {
			return
		}
		results, success := session.Run(paths)
		r.Printf("--- %s\n", time.Now().Format(time.TimeOnly))
		renderLintResults(r, results, opts.Severity, success)
	}

	// Initial pass so the first report does not wait for a write.
	relint()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".sql") {
				continue
			}
			logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			relint()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", werr)
		}
	}
}
