package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"despesas/internal/core"
	ports "despesas/internal/sheets"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Options selects the spreadsheet and the credentials used to reach it.
type Options struct {
	// SpreadsheetID wins over SpreadsheetName when both are set.
	SpreadsheetID   string
	SpreadsheetName string
	// SheetName defaults to the first worksheet of the spreadsheet.
	SheetName string

	CredentialsJSON []byte
	CredentialsFile string

	// ClientOptions are appended after the credential options.
	ClientOptions []goption.ClientOption
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var (
	_ ports.RecordWriter = (*Client)(nil)
	_ ports.RecordReader = (*Client)(nil)
)

// New resolves the spreadsheet and worksheet and returns a ready client.
func New(ctx context.Context, opts Options) (*Client, error) {
	clientOpts, err := clientOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	id := strings.TrimSpace(opts.SpreadsheetID)
	if id == "" {
		name := strings.TrimSpace(opts.SpreadsheetName)
		if name == "" {
			return nil, errors.New("missing spreadsheet id or name")
		}
		id, err = findSpreadsheet(ctx, name, clientOpts)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{svc: svc, spreadsheetID: id, sheetName: strings.TrimSpace(opts.SheetName)}
	if c.sheetName == "" {
		c.sheetName, err = c.firstSheet(ctx)
		if err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "Google Sheets store ready",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName)
	return c, nil
}

func clientOptions(ctx context.Context, opts Options) ([]goption.ClientOption, error) {
	var out []goption.ClientOption
	switch {
	case len(opts.CredentialsJSON) > 0:
		slog.InfoContext(ctx, "Using inline JSON credentials")
		out = append(out, goption.WithCredentialsJSON(opts.CredentialsJSON))
	case strings.TrimSpace(opts.CredentialsFile) != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", opts.CredentialsFile)
		b, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		out = append(out, goption.WithCredentialsJSON(b))
	case len(opts.ClientOptions) == 0:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	out = append(out, goption.WithScopes(gsheet.SpreadsheetsScope, gdrive.DriveMetadataReadonlyScope))
	return append(out, opts.ClientOptions...), nil
}

// findSpreadsheet looks a spreadsheet up by its title through the Drive API.
func findSpreadsheet(ctx context.Context, name string, opts []goption.ClientOption) (string, error) {
	drv, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("create drive service: %w", err)
	}
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), spreadsheetMimeType)
	resp, err := drv.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find spreadsheet %q: %w", name, err)
	}
	if len(resp.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found", name)
	}
	return resp.Files[0].Id, nil
}

func (c *Client) firstSheet(ctx context.Context) (string, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read spreadsheet %s: %w", c.spreadsheetID, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", c.spreadsheetID)
	}
	return ss.Sheets[0].Properties.Title, nil
}

// SheetName returns the worksheet the client reads and writes.
func (c *Client) SheetName() string { return c.sheetName }

// EnsureHeader writes the column headers when the first row is empty.
func (c *Client) EnsureHeader(ctx context.Context) error {
	rng := a1Range(c.sheetName, "A1:E1")
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	header := make([]any, len(ports.Headers))
	for i, h := range ports.Headers {
		header[i] = h
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{header}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header to %s: %w", rng, err)
	}
	slog.InfoContext(ctx, "Wrote expense sheet header", "sheet", c.sheetName)
	return nil
}

// Append adds one row after the last row of the table.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// RAW keeps item and description literal (no formulas, no date guessing)
	// and leaves the ISO date as text; the amount stays a number.
	row := ports.EncodeRow(e)
	vr := &gsheet.ValueRange{Values: [][]any{{
		row.Date,
		row.Item,
		e.Amount.InexactFloat64(),
		row.Category,
		row.Description,
	}}}

	rng := a1Range(c.sheetName, "A:E")
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// ReadAll reads every data row below the header. Columns are located by
// header name, so the table may be reordered in the sheet. Date cells come
// back as serial numbers so the sheet's locale never changes their text.
func (c *Client) ReadAll(ctx context.Context) ([]ports.Row, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := a1Range(c.sheetName, "A:E")
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseValues(resp.Values)
}

// parseValues maps a header-led values matrix onto rows.
func parseValues(values [][]any) ([]ports.Row, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	cols := make([]int, len(ports.Headers))
	var missing []string
	for i, h := range ports.Headers {
		cols[i] = indexOf(headers, h)
		if cols[i] == -1 && h != ports.HeaderDescription {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected sheet header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	out := make([]ports.Row, 0, len(values)-1)
	for _, v := range values[1:] {
		r := toStrings(v)
		date := safeGet(r, cols[0])
		if cols[0] < len(v) {
			if serial, ok := v[cols[0]].(float64); ok {
				date = serialDate(serial)
			}
		}
		out = append(out, ports.Row{
			Date:        date,
			Item:        safeGet(r, cols[1]),
			Amount:      safeGet(r, cols[2]),
			Category:    safeGet(r, cols[3]),
			Description: safeGet(r, cols[4]),
		})
	}
	return out, nil
}

// a1Range quotes the sheet name for A1 notation.
func a1Range(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), cells)
}

// sheetsEpoch is day zero of spreadsheet serial dates.
var sheetsEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// serialDate renders a serial date number as YYYY-MM-DD; the time of day is dropped.
func serialDate(serial float64) string {
	return sheetsEpoch.AddDate(0, 0, int(math.Floor(serial))).Format(core.DateLayout)
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = cellString(v)
	}
	return out
}

// cellString renders numbers positionally; fmt would switch to exponents
// from a million upwards.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
