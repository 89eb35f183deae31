package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/autochroma/autochroma/internal/model"
	"github.com/autochroma/autochroma/internal/tui"
)

var watchAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor jobs of a running serve instance",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchAddr, "addr", "http://localhost:8080", "Base URL of the serve instance")
}

// apiJobSource adapts the HTTP API to the monitor's job source.
type apiJobSource struct {
	base   string
	client *http.Client
}

func (s *apiJobSource) Jobs() []model.JobSnapshot {
	resp, err := s.client.Get(s.base + "/api/jobs")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	var jobs []model.JobSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		return nil
	}
	return jobs
}

func (s *apiJobSource) CancelJob(jobID string) (model.JobSnapshot, error) {
	resp, err := s.client.Post(s.base+"/api/jobs/"+jobID+"/cancel", "application/json", nil)
	if err != nil {
		return model.JobSnapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.JobSnapshot{}, fmt.Errorf("cancel failed: %s", resp.Status)
	}
	return model.JobSnapshot{ID: jobID}, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	return tui.Run(&apiJobSource{
		base:   watchAddr,
		client: &http.Client{Timeout: 5 * time.Second},
	})
}
