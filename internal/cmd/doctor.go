package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autochroma/autochroma/internal/ffmpeg"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the encoder tools are available",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	info := ffmpeg.CheckTools(cmd.Context(), cfg.FFmpegPath, cfg.FFprobePath)
	if !info.OK {
		return fmt.Errorf("%s", info.Message)
	}

	fmt.Printf("ffmpeg:  %s\nffprobe: %s\n", info.FFmpegVersion, info.FFprobeVersion)
	return nil
}
