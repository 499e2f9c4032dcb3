package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile_CSV(t *testing.T) {
	path := writeCSV(t, `Contact Name,Job Title,Email,Company Name,Website,Industry
Dana Smith , VP Engineering,Dana@Acme.example,Acme Robotics,acme.example,Industrial Machinery
Sam Lee,,sam@globex.example,Globex,,
`)

	subjects, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	s := subjects[0]
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Dana Smith", s.ContactName)
	assert.Equal(t, "VP Engineering", s.ContactTitle)
	assert.Equal(t, "dana@acme.example", s.ContactEmail)
	assert.Equal(t, "Acme Robotics", s.CompanyName)
	assert.Equal(t, "acme.example", s.CompanyWebsite)
	assert.Equal(t, "Industrial Machinery", s.Industry)
	assert.False(t, s.CreatedAt.IsZero())

	assert.Empty(t, subjects[1].ContactTitle)
	assert.NotEqual(t, subjects[0].ID, subjects[1].ID)
}

func TestReadFile_XLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Leads": {
			{"name", "company", "linkedin_url", "phone"},
			{"Dana Smith", "Acme Robotics", "https://www.linkedin.com/in/dana-smith/", "555-0100"},
		},
	})

	subjects, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "https://www.linkedin.com/in/dana-smith/", subjects[0].LinkedInURL)
	assert.Equal(t, "555-0100", subjects[0].ContactPhone)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "importer: open file")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		want    []string
		wantErr string
	}{
		{
			name:    "header only",
			rows:    [][]string{{"name", "company"}},
			wantErr: "no data rows",
		},
		{
			name:    "missing company column",
			rows:    [][]string{{"name", "email"}, {"Dana", "d@x.io"}},
			wantErr: `missing required column "company"`,
		},
		{
			name: "incomplete rows skipped",
			rows: [][]string{{"Full Name", "Account"}, {"Dana", ""}, {"", "Acme"}, {"Sam", "Globex"}},
			want: []string{"Sam"},
		},
		{
			name: "duplicate email keeps first",
			rows: [][]string{{"name", "company", "email"}, {"Dana", "Acme", "d@acme.io"}, {"Dana S", "Acme", "D@ACME.io"}},
			want: []string{"Dana"},
		},
		{
			name: "duplicate name and company without email",
			rows: [][]string{{"name", "company"}, {"Dana", "Acme"}, {"dana", "ACME"}, {"Dana", "Globex"}},
			want: []string{"Dana", "Dana"},
		},
		{
			name: "short rows",
			rows: [][]string{{"name", "company", "industry"}, {"Dana", "Acme"}},
			want: []string{"Dana"},
		},
		{
			name:    "nothing usable",
			rows:    [][]string{{"name", "company"}, {"", ""}},
			wantErr: "no usable rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.rows)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, s := range got {
				names[i] = s.ContactName
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestReadXLSX_SheetSelection(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Second": {{"x", "y"}, {"1", "2"}},
	})

	rows, err := readXLSX(path, XLSXOptions{SheetName: "Second"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y"}, {"1", "2"}}, rows)

	_, err = readXLSX(path, XLSXOptions{SheetName: "Missing"})
	assert.Contains(t, err.Error(), `sheet "Missing" not found`)

	_, err = readXLSX(path, XLSXOptions{SheetIndex: 3})
	assert.Contains(t, err.Error(), "out of range")
}

func TestReadCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, err := os.Open(writeCSV(t, "name,company\nDana,Acme\n"))
	require.NoError(t, err)
	defer f.Close()

	_, err = readCSV(ctx, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}
