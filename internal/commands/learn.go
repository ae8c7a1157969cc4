package abplay

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/abplay/internal/summary"
	"github.com/spf13/cobra"
)

// newLearnCmd implements 'learn', which prints the explainer topics.
func newLearnCmd(_ *app) *cobra.Command {
	slugs := make([]string, 0, len(summary.Topics()))
	for _, t := range summary.Topics() {
		slugs = append(slugs, string(t))
	}
	return &cobra.Command{
		Use:       "learn [topic]",
		Short:     "Explain the concepts behind A/B testing",
		Long:      "Print one explainer topic, or all of them when no topic is given. Topics: " + strings.Join(slugs, ", "),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: slugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := summary.Topics()
			if len(args) == 1 {
				t, err := summary.ParseTopic(args[0])
				if err != nil {
					return fmt.Errorf("%w (choose one of: %s)", err, strings.Join(slugs, ", "))
				}
				topics = []summary.Topic{t}
			}
			return printTopics(cmd.OutOrStdout(), topics)
		},
	}
}

func printTopics(w io.Writer, topics []summary.Topic) error {
	heading := color.New(color.FgCyan, color.Bold)
	for i, t := range topics {
		body, err := summary.Lookup(t)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		_, _ = heading.Fprintln(w, t.Title())
		fmt.Fprintln(w, body)
	}
	return nil
}
