package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"shapediff/internal/evaluator"
	"shapediff/internal/evaluator/rules"
)

type evaluatorInfo struct {
	Name     string   `json:"name"`
	Summary  string   `json:"summary"`
	EventIDs []string `json:"event_ids"`
}

func newEvaluatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluators",
		Short: "List the registered evaluators and the event IDs they emit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			infos := describeEvaluators(rules.DefaultRegistry())
			switch strings.ToLower(format) {
			case "pretty":
				return renderEvaluatorsPretty(cmd.OutOrStdout(), infos)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func describeEvaluators(r *evaluator.Registry) []evaluatorInfo {
	regs := r.Registrations()
	out := make([]evaluatorInfo, 0, len(regs))
	for _, reg := range regs {
		out = append(out, evaluatorInfo{Name: reg.Name, Summary: reg.Summary, EventIDs: reg.EventIDs})
	}
	return out
}

func renderEvaluatorsPretty(w io.Writer, infos []evaluatorInfo) error {
	width := 0
	for _, info := range infos {
		width = max(width, runewidth.StringWidth(info.Name))
	}
	for _, info := range infos {
		if _, err := fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(info.Name, width), info.Summary); err != nil {
			return err
		}
		pad := strings.Repeat(" ", width+2)
		for _, id := range info.EventIDs {
			if _, err := fmt.Fprintf(w, "%s- %s\n", pad, id); err != nil {
				return err
			}
		}
	}
	return nil
}
