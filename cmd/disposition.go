package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jpdehyl/BSA-demo/internal/disposition"
)

var (
	dispDurationSecs   int
	dispTranscriptFile string
	dispStatus         string
)

var dispositionCmd = &cobra.Command{
	Use:   "disposition",
	Short: "Suggest an outcome label for a finished call",
	Example: `  bsa disposition --duration 7
  bsa disposition --duration 240 --transcript-file call.txt`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if dispDurationSecs < 0 {
			return eris.New("disposition: --duration must not be negative")
		}
		m := disposition.CallMetrics{
			Duration: time.Duration(dispDurationSecs) * time.Second,
			Status:   dispStatus,
		}
		if dispTranscriptFile != "" {
			raw, err := os.ReadFile(dispTranscriptFile)
			if err != nil {
				return eris.Wrap(err, "disposition: read transcript")
			}
			m.Transcript = string(raw)
		}

		if err := cfg.Validate("disposition"); err != nil {
			return err
		}
		s := newSuggester(cmd.Context())
		return writeRecord(cmd.OutOrStdout(), s.Suggest(cmd.Context(), m), "json")
	},
}

func init() {
	dispositionCmd.Flags().IntVar(&dispDurationSecs, "duration", 0, "call duration in seconds")
	dispositionCmd.Flags().StringVar(&dispTranscriptFile, "transcript-file", "", "path to the call transcript")
	dispositionCmd.Flags().StringVar(&dispStatus, "status", "", "telephony status, informational")
	_ = dispositionCmd.MarkFlagRequired("duration")
	rootCmd.AddCommand(dispositionCmd)
}
