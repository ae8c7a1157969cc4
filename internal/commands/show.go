package abplay

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/mwiater/abplay/internal/appconfig"
	"github.com/spf13/cobra"
)

// newShowCmd groups the 'show' subcommands.
func newShowCmd(a *app) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show application state",
	}

	var raw bool
	showConfigCmd := &cobra.Command{
		Use:   "config",
		Short: "Show config settings",
		Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if raw {
				_, err := pp.Fprintln(out, a.config)
				return err
			}
			runShowConfig(out, a.config)
			return nil
		},
	}
	showConfigCmd.Flags().BoolVar(&raw, "raw", false, "dump the merged config struct")

	showCmd.AddCommand(showConfigCmd)
	return showCmd
}

func runShowConfig(w io.Writer, cfg *appconfig.Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(w, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(w, "Config file: %s\n\n", cfg.ConfigPath)
	}

	alt := cfg.Alternative
	if parsed, err := cfg.DefaultAlternative(); err == nil {
		alt = parsed.String()
	}
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintf(w, "  Alpha:           %v\n", cfg.Alpha)
	fmt.Fprintf(w, "  Alternative:     %s\n", alt)
	fmt.Fprintf(w, "  Output Format:   %s\n", cfg.OutputFormat())
	fmt.Fprintf(w, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(w, "  JSON Mode:       %v\n", cfg.JSONMode)
	fmt.Fprintf(w, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(w, "  Export JSON:     %s\n", cfg.ExportPath)
	fmt.Fprintf(w, "  Export Markdown: %s\n", cfg.ExportMarkdownPath)
	fmt.Fprintf(w, "  Listen:          %s\n", cfg.ListenAddr())
	fmt.Fprintf(w, "  Read Timeout:    %s\n", cfg.ReadTimeoutDuration())
}
