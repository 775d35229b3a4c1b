package formatter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"phishtakedown/internal/ingest"
	"phishtakedown/internal/models"
	"phishtakedown/internal/normalizer"
)

// Rendering limits for the rejection table.
const (
	MaxRejectionRows = 20
	maxURLWidth      = 60
	maxCauseWidth    = 50
)

// RenderReport renders the run counters and, when present, the first
// MaxRejectionRows rejected rows.
func RenderReport(report models.IngestionReport, rejections []ingest.Rejection) string {
	counts := [][]string{
		{"read", strconv.Itoa(report.Read)},
		{"accepted", strconv.Itoa(report.Accepted)},
		{"skipped (empty)", strconv.Itoa(report.SkippedEmpty)},
		{"skipped (duplicate)", strconv.Itoa(report.SkippedDuplicate)},
		{"skipped (invalid)", strconv.Itoa(report.SkippedInvalid)},
	}

	lines := Table([]string{"Outcome", "Rows"}, counts)

	if len(rejections) > 0 {
		shown := rejections
		if len(shown) > MaxRejectionRows {
			shown = shown[:MaxRejectionRows]
		}

		rows := make([][]string, 0, len(shown))
		for _, r := range shown {
			rows = append(rows, []string{
				strconv.Itoa(r.Line),
				Cell(cause(r.Err), maxCauseWidth),
				Cell(r.URL, maxURLWidth),
			})
		}

		lines = append(lines, "", fmt.Sprintf("Rejected rows (%d of %d):", len(shown), len(rejections)), "")
		lines = append(lines, Table([]string{"Line", "Reason", "URL"}, rows)...)
	}

	return strings.Join(lines, "\n") + "\n"
}

// cause returns the most specific message for a row error.
func cause(err error) string {
	if err == nil {
		return ""
	}

	var verr *normalizer.ValidationError
	if errors.As(err, &verr) && verr.Err != nil {
		return verr.Err.Error()
	}

	return err.Error()
}
