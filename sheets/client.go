package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Client はミラー先スプレッドシートの操作面
type Client interface {
	InsertRow(ctx context.Context, row []string) error
	ReadAllRows(ctx context.Context) ([][]string, error)
}

// GoogleSheetClient はサービスアカウント認証のSheets APIクライアント
type GoogleSheetClient struct {
	service       *gsheets.Service
	spreadsheetID string
	sheetName     string
}

func NewGoogleSheetClient(ctx context.Context, credentialsFile string, spreadsheetID string, sheetName string) (*GoogleSheetClient, error) {
	if credentialsFile == "" || spreadsheetID == "" {
		return nil, fmt.Errorf("sheets credentials file and spreadsheet id are required")
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	service, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetClient{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (c *GoogleSheetClient) InsertRow(ctx context.Context, row []string) error {
	values := make([]interface{}, 0, len(row))
	for _, cell := range row {
		values = append(values, cell)
	}

	_, err := c.service.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName, &gsheets.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

func (c *GoogleSheetClient) ReadAllRows(ctx context.Context) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
