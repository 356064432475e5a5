// Package google adapts the Google Sheets API v4 to the sheets.RowFetcher
// port using service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"remape/internal/core"
	"remape/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc *gsheet.Service
}

var _ sheets.RowFetcher = (*Client)(nil)

// NewFromEnv creates a Sheets client from service-account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS, in that order.
func NewFromEnv(ctx context.Context) (*Client, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inline != "":
		credentialsJSON = []byte(inline)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return New(ctx, credentialsJSON)
}

// New creates a Sheets client from inline service-account JSON.
func New(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created")
	return &Client{svc: svc}, nil
}

// FetchRows reads the whole worksheet and returns it with the first row as
// the column set.
func (c *Client) FetchRows(ctx context.Context, spreadsheetID, worksheet string) (core.Table, error) {
	if c.svc == nil {
		return core.Table{}, &sheets.FetchError{SpreadsheetID: spreadsheetID, Worksheet: worksheet,
			Err: errors.New("sheets service not initialized")}
	}
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, worksheetRange(worksheet)).Context(ctx).Do()
	if err != nil {
		return core.Table{}, &sheets.FetchError{SpreadsheetID: spreadsheetID, Worksheet: worksheet, Err: err}
	}
	return tableFromValues(resp.Values), nil
}

// worksheetRange addresses a whole worksheet by title, quoted so names
// with spaces or accents survive. An empty title means the first sheet.
func worksheetRange(worksheet string) string {
	if strings.TrimSpace(worksheet) == "" {
		return "A1:ZZ"
	}
	return fmt.Sprintf("'%s'", strings.ReplaceAll(worksheet, "'", "''"))
}

func tableFromValues(values [][]interface{}) core.Table {
	rows := make([][]string, 0, len(values))
	for _, row := range values {
		rows = append(rows, toStrings(row))
	}
	return core.NewTable(rows)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
