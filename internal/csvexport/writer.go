package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"claimos/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (11 columns).
var columns = []string{
	"Claim Number",
	"Status",
	"Coverage Types",
	"Incident Description",
	"Incident Date",
	"Incident Location",
	"Claimed Amount",
	"Session ID",
	"User ID",
	"Submitted At",
	"Created At",
}

// Writer wraps csv.Writer for exporting claims as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteClaims converts a batch of claims to CSV rows and writes them.
func (w *Writer) WriteClaims(claims []domain.Claim) error {
	for i := range claims {
		row := claimToRow(&claims[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func claimToRow(claim *domain.Claim) []string {
	row := make([]string, len(columns))
	row[0] = claim.ClaimNumber
	row[1] = string(claim.Status)
	row[2] = strings.Join(claim.CoverageTypeIDs, "; ")
	row[3] = claim.IncidentDescription
	row[4] = formatDate(claim.IncidentDate)
	row[5] = claim.IncidentLocation
	row[6] = formatMoney(claim.ClaimedAmount)
	row[7] = claim.SessionID
	row[8] = claim.UserID.String()
	row[9] = claim.SubmittedAt.Format(time.RFC3339)
	row[10] = claim.CreatedAt.Format(time.RFC3339)
	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_prefix}_{YYYY-MM-DD}.csv
func BuildFilename(prefix string) string {
	sanitized := SanitizeFilename(prefix)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
