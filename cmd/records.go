package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/store"
)

var (
	recordsFilter   store.Filter
	recordsPriority string
	recordsFormat   string
)

var recordsCmd = &cobra.Command{
	Use:   "records [id]",
	Short: "List stored research records, or print one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "records: migrate store")
		}

		if len(args) == 1 {
			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), rec, recordsFormat)
		}

		recordsFilter.Priority = model.PriorityLevel(recordsPriority)
		recs, err := st.List(ctx, recordsFilter)
		if err != nil {
			return err
		}
		return writeRecord(cmd.OutOrStdout(), recordRows(recs), recordsFormat)
	},
}

type recordRow struct {
	ID        string              `json:"id"`
	Contact   string              `json:"contact"`
	Company   string              `json:"company"`
	FitScore  int                 `json:"fit_score"`
	Priority  model.PriorityLevel `json:"priority"`
	CreatedAt string              `json:"created_at"`
}

func recordRows(recs []model.CompositeResearchRecord) []recordRow {
	rows := make([]recordRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, recordRow{
			ID:        r.ID,
			Contact:   r.Subject.ContactName,
			Company:   r.Subject.CompanyName,
			FitScore:  r.Score.Final,
			Priority:  r.Score.Priority,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return rows
}

func init() {
	f := recordsCmd.Flags()
	f.StringVar(&recordsFilter.Company, "company", "", "only records for this company")
	f.StringVar(&recordsPriority, "priority", "", "only records with this priority (hot, warm, cool, cold)")
	f.IntVar(&recordsFilter.Limit, "limit", 0, "maximum records to list (default 100)")
	f.IntVar(&recordsFilter.Offset, "offset", 0, "records to skip")
	f.StringVar(&recordsFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(recordsCmd)
}
