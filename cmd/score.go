package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/scorer"
)

var (
	scoreBase    int
	scoreSubject model.Subject
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Apply data-quality penalties to a fit score",
	Example: `  bsa score --base 85 --name "Dana Smith" --company "Acme Robotics" --email dana@gmail.com`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if scoreBase < 0 || scoreBase > 100 {
			return eris.Errorf("score: --base must be between 0 and 100, got %d", scoreBase)
		}
		return writeRecord(cmd.OutOrStdout(), scoreSummary(scoreBase, scoreSubject), "json")
	},
}

// scoreSummary penalizes base against s and fills the breakdown.
func scoreSummary(base int, s model.Subject) model.ScoreSummary {
	r := scorer.Penalize(base, scorer.FactsFor(s))
	sum := r.Summary()
	sum.Breakdown = scorer.FormatBreakdown(r, "")
	return sum
}

func init() {
	f := scoreCmd.Flags()
	f.IntVar(&scoreBase, "base", 50, "fit score before penalties (0-100)")
	f.StringVar(&scoreSubject.ContactName, "name", "", "contact name")
	f.StringVar(&scoreSubject.CompanyName, "company", "", "company name")
	f.StringVar(&scoreSubject.ContactEmail, "email", "", "contact email")
	f.StringVar(&scoreSubject.ContactTitle, "title", "", "contact job title")
	f.StringVar(&scoreSubject.CompanyWebsite, "website", "", "company website")
	f.StringVar(&scoreSubject.Industry, "industry", "", "company industry")
	rootCmd.AddCommand(scoreCmd)
}
