// Package export builds the CSV download of captured leads. Lead rows
// are not deduplicated at write time, so uniqueness per address is
// enforced here: the first capture wins.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"DocDrop/internal/models"
)

var header = []string{"email", "source", "captured_at"}

// WriteLeadsCSV writes one row per unique email address, in capture
// order. Leads must be sorted by capture time ascending for "first
// capture wins" to hold.
func WriteLeadsCSV(w io.Writer, leads []models.Lead) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(leads))
	for _, lead := range leads {
		if _, ok := seen[lead.Email]; ok {
			continue
		}
		seen[lead.Email] = struct{}{}

		if err := cw.Write([]string{
			lead.Email,
			lead.Source,
			lead.CapturedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
