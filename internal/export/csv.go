package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/2beens/kneerehab/internal/rehab"
	"github.com/2beens/kneerehab/pkg"
)

const (
	FileName = "rebuild-your-knee.csv"
	MIMEType = "text/csv"

	header = "Type,#,Date,Value/Exercises,Sets/Label,Intensity,Notes"
)

// ToCSV flattens the pain log and the session history into one CSV blob:
// a header, one "Pain Log" row per check-in, then one "Session" row per
// workout. Rows are joined with "\n". Notes are quoted but not escaped, so
// quotes or newlines inside a note break the row.
func ToCSV(log rehab.PainLog, history rehab.SessionHistory) string {
	rows := make([]string, 0, 1+len(log)+len(history))
	rows = append(rows, header)

	for i, e := range log {
		rows = append(rows, fmt.Sprintf(`Pain Log,%d,%s,%s,%s,""`,
			i+1, e.Date, strconv.FormatFloat(e.Value, 'f', -1, 64), e.Label,
		))
	}
	for _, s := range history {
		rows = append(rows, fmt.Sprintf(`Session,%d,%s,%d,%d,%d%%,"%s"`,
			s.ID, s.Date, s.Exercises, s.TotalSets, s.Intensity, s.Notes,
		))
	}

	return strings.Join(rows, "\n")
}

// WriteFile writes the export into dir, creating it when missing, and
// returns the file path.
func WriteFile(dir string, log rehab.PainLog, history rehab.SessionHistory) (string, error) {
	if err := pkg.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(ToCSV(log, history)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
