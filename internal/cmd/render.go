package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/autochroma/autochroma/internal/model"
)

var (
	renderHex        string
	renderSimilarity float64
	renderBlend      float64
	renderCRF        int
	renderAudio      bool
)

var renderCmd = &cobra.Command{
	Use:   "render <media-file>",
	Short: "Render a transparent WebM/PNG from a solid-background file",
	Long: `Render runs one file through the chroma-key pipeline and waits for
completion. When --hex is omitted the key color is estimated first.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderHex, "hex", "", "Key color (e.g. 00FF00); estimated when omitted")
	renderCmd.Flags().Float64Var(&renderSimilarity, "similarity", 0.10, "Chromakey similarity (0-0.5)")
	renderCmd.Flags().Float64Var(&renderBlend, "blend", 0.05, "Chromakey blend (0-0.5)")
	renderCmd.Flags().IntVar(&renderCRF, "crf", model.DefaultCRF, "VP9 quality factor (video only)")
	renderCmd.Flags().BoolVar(&renderAudio, "audio", false, "Carry over the original audio track (video only)")
}

func runRender(cmd *cobra.Command, args []string) error {
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

	var color model.KeyColor
	if renderHex != "" {
		color, err = model.ParseKeyColor(renderHex)
		if err != nil {
			return err
		}
	} else {
		var samples int
		color, samples, err = eng.EstimateKey(cmd.Context(), asset.ID)
		if err != nil {
			return err
		}
		fmt.Printf("estimated key color #%s from %d samples\n", color.Hex(), samples)
	}

	params := model.KeyParams{
		Similarity: renderSimilarity,
		Blend:      renderBlend,
	}
	if asset.IsVideo() {
		params.CRF = renderCRF
		params.IncludeAudio = renderAudio
	}

	snap, err := eng.StartRender(asset.ID, color, params)
	if err != nil {
		return err
	}

	for !snap.Status.Terminal() {
		time.Sleep(500 * time.Millisecond)
		snap, err = eng.JobStatus(snap.ID)
		if err != nil {
			return err
		}
		if snap.Status == model.JobRunning {
			fmt.Printf("\rprogress: %3.0f%%", snap.Progress*100)
		}
	}
	fmt.Println()

	if snap.Status != model.JobDone {
		return fmt.Errorf("render %s: %s", snap.Status, snap.Message)
	}
	fmt.Printf("output: %s (%d bytes)\n", snap.Output.Name, snap.Output.Size)
	return nil
}
