// Package importer reads lead lists from CSV and XLSX files into research
// subjects.
package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// column identifies a Subject field.
type column int

const (
	colName column = iota
	colTitle
	colEmail
	colPhone
	colLinkedIn
	colCompany
	colWebsite
	colIndustry
)

// headerAliases maps normalized header text to a field. Headers are
// lowercased with spaces, dashes and underscores removed.
var headerAliases = map[string]column{
	"name":           colName,
	"contactname":    colName,
	"fullname":       colName,
	"contact":        colName,
	"title":          colTitle,
	"jobtitle":       colTitle,
	"contacttitle":   colTitle,
	"email":          colEmail,
	"contactemail":   colEmail,
	"emailaddress":   colEmail,
	"phone":          colPhone,
	"contactphone":   colPhone,
	"phonenumber":    colPhone,
	"linkedin":       colLinkedIn,
	"linkedinurl":    colLinkedIn,
	"company":        colCompany,
	"companyname":    colCompany,
	"account":        colCompany,
	"website":        colWebsite,
	"companywebsite": colWebsite,
	"domain":         colWebsite,
	"url":            colWebsite,
	"industry":       colIndustry,
}

func normalizeHeader(h string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(h)))
}

// ReadFile parses the lead file at path. The format is chosen by
// extension: .xlsx, or anything else as CSV.
func ReadFile(ctx context.Context, path string) ([]model.Subject, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path, XLSXOptions{})
	default:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "importer: open file")
		}
		defer f.Close()
		rows, err = readCSV(ctx, f)
	}
	if err != nil {
		return nil, err
	}
	return Parse(rows)
}

// Parse maps a header row plus data rows onto subjects. Rows without a
// contact name or company are skipped. Duplicate rows, keyed by email or
// else by name and company, keep the first occurrence.
func Parse(rows [][]string) ([]model.Subject, error) {
	if len(rows) < 2 {
		return nil, eris.New("importer: file has no data rows")
	}

	idx := make(map[column]int)
	for i, h := range rows[0] {
		if c, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, dup := idx[c]; !dup {
				idx[c] = i
			}
		}
	}
	for _, req := range []struct {
		col  column
		name string
	}{{colName, "name"}, {colCompany, "company"}} {
		if _, ok := idx[req.col]; !ok {
			return nil, eris.Errorf("importer: missing required column %q", req.name)
		}
	}

	get := func(row []string, c column) string {
		i, ok := idx[c]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	now := time.Now().UTC()
	seen := make(map[string]bool)
	var out []model.Subject
	for n, row := range rows[1:] {
		s := model.Subject{
			ID:             uuid.NewString(),
			ContactName:    get(row, colName),
			ContactTitle:   get(row, colTitle),
			ContactEmail:   strings.ToLower(get(row, colEmail)),
			ContactPhone:   get(row, colPhone),
			LinkedInURL:    get(row, colLinkedIn),
			CompanyName:    get(row, colCompany),
			CompanyWebsite: get(row, colWebsite),
			Industry:       get(row, colIndustry),
			CreatedAt:      now,
		}
		if s.ContactName == "" || s.CompanyName == "" {
			zap.L().Debug("importer: skipping incomplete row", zap.Int("row", n+2))
			continue
		}

		key := s.ContactEmail
		if key == "" {
			key = strings.ToLower(s.ContactName + "|" + s.CompanyName)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}

	if len(out) == 0 {
		return nil, eris.New("importer: no usable rows")
	}
	return out, nil
}
