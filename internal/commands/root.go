// internal/commands/root.go
package abplay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mwiater/abplay/internal/appconfig"
	"github.com/mwiater/abplay/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// app carries per-invocation state shared by the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	config  *appconfig.Config
}

// NewRootCmd builds the abplay command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "abplay",
		Short:         "abplay — statistical significance for A/B conversion experiments",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")
	flags.Bool("debug", false, "enable debug logging to stderr")
	flags.Bool("jsonMode", false, "force JSON output")
	flags.String("logFile", "", "path to the log file")
	flags.Float64("alpha", appconfig.DefaultAlpha, "significance level, strictly between 0 and 1")
	flags.String("alternative", "two-sided", "alternative hypothesis: two-sided, larger or smaller")
	flags.String("format", appconfig.FormatText, "output format: text, json or markdown")
	flags.String("export", "", "also write every report to this JSON file")
	flags.String("exportMarkdown", "", "also write every report to this Markdown file")

	for _, name := range []string{"debug", "jsonMode", "logFile", "alpha", "alternative", "format", "export", "exportMarkdown"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		newEvaluateCmd(a),
		newBatchCmd(a),
		newLearnCmd(a),
		newPlaygroundCmd(a),
		newServeCmd(a),
		newShowCmd(a),
	)
	return rootCmd
}

// loadConfig merges flags > config file > defaults into a.config and
// initialises logging.
func (a *app) loadConfig(cmd *cobra.Command) error {
	if err := a.readConfigFile(); err != nil {
		return err
	}

	var cfg appconfig.Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = a.v.ConfigFileUsed()
	a.config = &cfg

	var console io.Writer
	if cfg.Debug {
		console = cmd.ErrOrStderr()
	}
	if err := logging.Init(cfg.LogFilePath(), console); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.LogPayload("[CONFIG] "+cmd.Name(), cfg)
	return nil
}

// readConfigFile resolves the config path (including the legacy config.json
// fallback), validates the file and hands it to viper. A missing file means
// defaults and flags only.
func (a *app) readConfigFile() error {
	if a.cfgFile == "" {
		return nil
	}
	fileCfg, err := appconfig.Load(a.cfgFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.v.SetConfigFile(fileCfg.ConfigPath)
	a.v.SetConfigType("json")
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := NewRootCmd().Execute()
	_ = logging.Close()
	if err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
