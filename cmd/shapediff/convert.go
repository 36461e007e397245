package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shapediff/internal/modelio"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Re-encode a model file; formats follow the file extensions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := modelio.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load model: %w", err)
			}
			if err := modelio.Save(args[1], m); err != nil {
				return fmt.Errorf("failed to write model: %w", err)
			}
			logger.Debug("model converted",
				zap.String("from", args[0]),
				zap.String("to", args[1]),
				zap.Int("shapes", m.Len()))
			return nil
		},
	}
}
