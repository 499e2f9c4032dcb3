package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

var (
	researchSubject model.Subject
	researchFormat  string
	researchSave    bool
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research one contact and print the composite record",
	Example: `  bsa research --name "Dana Smith" --company "Acme Robotics" --email dana@acme.example
  bsa research --name "Dana Smith" --company "Acme Robotics" --website acme.example --format yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), sessionTimeout)
		defer cancel()

		env, err := initResearch(ctx, "research", researchSave)
		if err != nil {
			return err
		}
		defer env.Close()

		rec, err := env.Aggregator.Research(ctx, researchSubject)
		if err != nil {
			return eris.Wrap(err, "research")
		}
		if env.Store != nil {
			saveCtx, cancelSave := context.WithTimeout(cmd.Context(), saveTimeout)
			defer cancelSave()
			if err := env.Store.Save(saveCtx, rec); err != nil {
				return eris.Wrap(err, "research: save")
			}
			zap.L().Info("research: saved", zap.String("id", rec.ID))
		}
		return writeRecord(cmd.OutOrStdout(), rec, researchFormat)
	},
}

// writeRecord renders rec as indented JSON or YAML.
func writeRecord(w io.Writer, rec any, format string) error {
	switch format {
	case "yaml":
		// Round-trip through JSON so YAML keys follow the json tags.
		raw, err := json.Marshal(rec)
		if err != nil {
			return eris.Wrap(err, "marshal record")
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return eris.Wrap(err, "unmarshal record")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return eris.Wrap(enc.Encode(generic), "encode yaml")
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rec), "encode json")
	default:
		return eris.Errorf("unknown format %q (json or yaml)", format)
	}
}

func init() {
	f := researchCmd.Flags()
	f.StringVar(&researchSubject.ContactName, "name", "", "contact name (required)")
	f.StringVar(&researchSubject.CompanyName, "company", "", "company name (required)")
	f.StringVar(&researchSubject.ContactEmail, "email", "", "contact email")
	f.StringVar(&researchSubject.ContactTitle, "title", "", "contact job title")
	f.StringVar(&researchSubject.ContactPhone, "phone", "", "contact phone")
	f.StringVar(&researchSubject.LinkedInURL, "linkedin", "", "contact profile URL")
	f.StringVar(&researchSubject.CompanyWebsite, "website", "", "company website")
	f.StringVar(&researchSubject.Industry, "industry", "", "company industry")
	f.StringVar(&researchFormat, "format", "json", "output format: json or yaml")
	f.BoolVar(&researchSave, "save", false, "persist the record to the configured store")
	_ = researchCmd.MarkFlagRequired("name")
	_ = researchCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(researchCmd)
}
