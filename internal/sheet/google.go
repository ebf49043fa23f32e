package sheet

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/config"
)

// GoogleValues implements Values against the Google Sheets v4 API using a
// service-account JWT. The client is stateless beyond credentials, so one
// lazily built service is shared by all calls.
type GoogleValues struct {
	cfg config.Config

	mu  sync.Mutex
	svc *sheets.Service
}

// NewGoogle constructs a GoogleValues. No network happens until first use.
func NewGoogle(cfg config.Config) *GoogleValues {
	return &GoogleValues{cfg: cfg}
}

func (g *GoogleValues) service(ctx context.Context) (*sheets.Service, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.svc != nil {
		return g.svc, nil
	}
	conf := &jwt.Config{
		Email:      g.cfg.ClientEmail,
		PrivateKey: []byte(g.cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := sheets.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("build sheets service: %w", err)
	}
	g.svc = svc
	return svc, nil
}

// Get implements Values.
func (g *GoogleValues) Get(ctx context.Context, rng string) ([][]string, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(g.cfg.SpreadsheetID, rng).
		MajorDimension("ROWS").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			if cell != nil {
				row[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// Update implements Values.
func (g *GoogleValues) Update(ctx context.Context, rng string, rows [][]string) error {
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}
	_, err = svc.Spreadsheets.Values.Update(g.cfg.SpreadsheetID, rng, valueRange(rng, rows)).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// Append implements Values.
func (g *GoogleValues) Append(ctx context.Context, rng string, rows [][]string) error {
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}
	_, err = svc.Spreadsheets.Values.Append(g.cfg.SpreadsheetID, rng, valueRange(rng, rows)).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

// Clear implements Values.
func (g *GoogleValues) Clear(ctx context.Context, rng string) error {
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}
	_, err = svc.Spreadsheets.Values.Clear(g.cfg.SpreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return err
}

func valueRange(rng string, rows [][]string) *sheets.ValueRange {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		values[i] = cells
	}
	return &sheets.ValueRange{Range: rng, MajorDimension: "ROWS", Values: values}
}
