// Package cli implements the flyin command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Prashant-Bharaj/fly-in/pkg/config"
	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
	"github.com/Prashant-Bharaj/fly-in/pkg/metrics"
)

var version = "dev"

// SetVersion sets the version reported by --version and on trace spans.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:     "flyin",
		Version: version,
		Short:   "Route and schedule drone fleets through capacity-limited zones",
		Long: `flyin reads a map of zones and connections, plans routes from the start
hub to the end hub and moves the whole fleet turn by turn without ever
exceeding a zone or connection capacity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		newRunCmd(g),
		newPlanCmd(g),
		newBatchCmd(g),
		newViewCmd(g),
	)
	return root
}

// Execute runs the command line against os.Args.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// load reads the configuration and builds the logger for cmd.
func (g *globalOptions) load(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return cfg, cfg.NewLogger(cmd.ErrOrStderr()), nil
}

// metricsRegistry returns a fresh registry when cfg asks for a textfile, nil
// otherwise.
func metricsRegistry(cfg *config.Config) *metrics.Registry {
	if cfg.Metrics.Textfile == "" {
		return nil
	}
	return metrics.NewRegistry()
}

func writeMetrics(reg *metrics.Registry, path string) error {
	if reg == nil || path == "" {
		return nil
	}
	if err := reg.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
