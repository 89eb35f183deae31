package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <media-file>",
	Short: "Estimate the background key color of a media file",
	Args:  cobra.ExactArgs(1),
	RunE:  runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg, nil)
	if err != nil {
		return err
	}

	asset, err := eng.Assets().Register(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	color, samples, err := eng.EstimateKey(cmd.Context(), asset.ID)
	if err != nil {
		return err
	}

	fmt.Printf("key color: #%s (rgb %d,%d,%d) from %d samples\n",
		color.Hex(), color.R, color.G, color.B, samples)
	return nil
}
