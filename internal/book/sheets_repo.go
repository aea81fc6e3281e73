package book

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"readinglog/internal/platform/gsheets"
)

// SheetsAPI is the subset of the Sheets values API the repo needs.
type SheetsAPI interface {
	Get(ctx context.Context, rng string) (gsheets.ValueRange, error)
	Update(ctx context.Context, rng string, values [][]string) error
	Append(ctx context.Context, rng string, values [][]string) (int, error)
	DeleteRows(ctx context.Context, sheetID int64, start, end int) error
}

// SheetsRepo keeps the reading log in one worksheet whose first row is the header.
// A RowID is the 1-based data row index, so sheet row = id + 1.
type SheetsRepo struct {
	api       SheetsAPI
	worksheet string
	sheetID   int64
	timeout   time.Duration

	// row ids shift on delete; serialize writes from this process
	mu sync.Mutex
}

func NewSheetsRepo(api SheetsAPI, worksheet string, sheetID int64, timeout time.Duration) *SheetsRepo {
	return &SheetsRepo{api: api, worksheet: worksheet, sheetID: sheetID, timeout: timeout}
}

func (r *SheetsRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SheetsRepo) a1(cell string) string {
	q := gsheets.QuoteSheet(r.worksheet)
	if cell == "" {
		return q
	}
	return q + "!" + cell
}

type sheetTable struct {
	header []string
	data   [][]string
}

func (r *SheetsRepo) load(ctx context.Context) (sheetTable, error) {
	vr, err := r.api.Get(ctx, r.a1(""))
	if err != nil {
		return sheetTable{}, unavailable("read sheet", err)
	}
	if len(vr.Values) == 0 {
		return sheetTable{}, nil
	}
	header := make([]string, len(vr.Values[0]))
	for i, h := range vr.Values[0] {
		header[i] = strings.TrimSpace(h)
	}
	return sheetTable{header: header, data: vr.Values[1:]}, nil
}

func (t sheetTable) row(i int) Row {
	cells := make(map[string]string, len(t.header))
	values := t.data[i]
	for j, h := range t.header {
		if j < len(values) {
			cells[h] = values[j]
		}
	}
	return RowFromCells(RowID(i+1), cells)
}

// encode lays out row under the sheet's own header. Unknown header columns stay empty.
func (t sheetTable) encode(row Row) []string {
	byName := make(map[string]string, len(Columns))
	for i, v := range row.Cells() {
		byName[Columns[i]] = v
	}
	out := make([]string, len(t.header))
	for i, h := range t.header {
		out[i] = byName[h]
	}
	return out
}

func (t sheetTable) has(id RowID) bool {
	return id >= 1 && int(id) <= len(t.data)
}

func (r *SheetsRepo) ReadAll(ctx context.Context, _ time.Duration) ([]Row, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	t, err := r.load(timeoutCtx)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(t.data))
	for i := range t.data {
		out = append(out, t.row(i))
	}
	return out, nil
}

func (r *SheetsRepo) Append(ctx context.Context, row Row) (RowID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	t, err := r.load(timeoutCtx)
	if err != nil {
		return 0, err
	}
	if len(t.header) == 0 {
		if err := r.api.Update(timeoutCtx, r.a1("A1"), [][]string{Columns}); err != nil {
			return 0, unavailable("write header", err)
		}
		t.header = Columns
	}
	sheetRow, err := r.api.Append(timeoutCtx, r.a1("A1"), [][]string{t.encode(row)})
	if err != nil {
		return 0, unavailable("append row", err)
	}
	return RowID(sheetRow - 1), nil
}

func (r *SheetsRepo) Replace(ctx context.Context, id RowID, row Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	t, err := r.load(timeoutCtx)
	if err != nil {
		return err
	}
	if !t.has(id) {
		return ErrNotFound
	}
	cell := fmt.Sprintf("A%d", int(id)+1)
	if err := r.api.Update(timeoutCtx, r.a1(cell), [][]string{t.encode(row)}); err != nil {
		return unavailable("update row", err)
	}
	return nil
}

func (r *SheetsRepo) Delete(ctx context.Context, id RowID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	t, err := r.load(timeoutCtx)
	if err != nil {
		return err
	}
	if !t.has(id) {
		return ErrNotFound
	}
	// 0-based sheet index of data row id is id itself because row 0 is the header
	if err := r.api.DeleteRows(timeoutCtx, r.sheetID, int(id), int(id)+1); err != nil {
		return unavailable("delete row", err)
	}
	return nil
}

func (r *SheetsRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.api.Get(timeoutCtx, r.a1("1:1")); err != nil {
		return unavailable("ping sheet", err)
	}
	return nil
}
