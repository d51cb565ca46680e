// Package google appends ledger rows to a Google spreadsheet through the
// Sheets API, authenticated with a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/rmuratov/brofund/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

var _ sheets.RowAppender = (*Client)(nil)

// New builds a client for the given spreadsheet and sheet. Credentials come
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS, in that order.
func New(ctx context.Context, spreadsheetID, sheet string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newService(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}, nil
}

func newService(ctx context.Context) (*gsheet.Service, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentials []byte

	switch {
	case inline != "":
		credentials = []byte(inline)
	case file != "":
		var err error

		credentials, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// Append adds the row after the last non-empty row of the sheet.
func (c *Client) Append(ctx context.Context, row []string) (string, error) {
	values := make([]any, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	vr := &gsheet.ValueRange{Values: [][]any{values}}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheet+"!A:F", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("appending to sheet %s: %w", c.sheet, err)
	}

	if resp.Updates == nil {
		return "", nil
	}

	return resp.Updates.UpdatedRange, nil
}
