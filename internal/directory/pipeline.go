package directory

import (
	"context"
	"fmt"
	"strings"
)

// Filter decides whether a record survives the filtering step.
type Filter func(Record) bool

// Reachable keeps records that carry at least one way to contact the person.
func Reachable(rec Record) bool {
	return rec.Email != "" || rec.Phone != ""
}

// Any keeps every record.
func Any(Record) bool { return true }

// ApplyFilter returns the records for which keep is true, preserving order.
func ApplyFilter(records []Record, keep Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// FormatRecord renders one record as a display line: the name, then the email
// in angle brackets, then the phone number, whichever are present.
func FormatRecord(rec Record) string {
	var b strings.Builder
	b.WriteString(rec.Name)
	if rec.Email != "" {
		fmt.Fprintf(&b, " <%s>", rec.Email)
	}
	if rec.Phone != "" {
		fmt.Fprintf(&b, " %s", rec.Phone)
	}
	return b.String()
}

// FormatAll renders every record with FormatRecord.
func FormatAll(records []Record) []string {
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = FormatRecord(rec)
	}
	return lines
}

// Lookup runs the full query/filter/format pipeline against the store.
func Lookup(ctx context.Context, store *Store, q string, limit int, keep Filter) ([]string, error) {
	records, err := store.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	if keep == nil {
		keep = Any
	}
	return FormatAll(ApplyFilter(records, keep)), nil
}
