// cmd/claims-portal/root.go
package main

import (
	"fmt"
	"time"

	"claims-portal/internal/common/claimsapi"
	"claims-portal/internal/common/config"
	commonhttp "claims-portal/internal/common/http"
	"claims-portal/internal/common/logger"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries what every subcommand shares once the config is loaded.
type app struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "claims-portal",
		Short: "Insurance claim intake and lookup portal",
		Long: `claims-portal serves the claim intake/lookup form and talks to the remote
claims API. The same operations are available from the terminal.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(
		newServeCmd(a),
		newLookupCmd(a),
		newSubmitCmd(a),
		newEstimateCmd(a),
		newActionsCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// load reads the configuration and builds the logger. Terminal commands log
// to stderr so stdout stays clean for results.
func (a *app) load(logOutput string) error {
	var (
		cfg *config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.LoadFromFile(a.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	if logOutput == "" {
		logOutput = cfg.Logging.Output
	}
	a.log = logger.NewStructured(level, cfg.Logging.Format, logOutput)

	if err := config.ApplyAPIURLFile(cfg); err != nil {
		a.log.Warn("config.json ignored, using configured API URL", map[string]interface{}{
			"error":   err.Error(),
			"baseURL": cfg.API.BaseURL,
		})
	}
	a.cfg = cfg
	return nil
}

func (a *app) apiClient() *claimsapi.Client {
	timeout := config.GetDuration(a.cfg.API.Timeout)
	return claimsapi.NewClient(a.cfg.API.BaseURL, commonhttp.NewClient(timeout), nil, a.log)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "claims-portal %s\n", version)
		},
	}
}

func timeoutOr(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
