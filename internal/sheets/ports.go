// Package sheets defines the outbound port for the shared spreadsheet.
package sheets

import "context"

// RowAppender appends one ledger row to the spreadsheet and returns a
// reference to where it landed.
type RowAppender interface {
	Append(ctx context.Context, row []string) (rowRef string, err error)
}
