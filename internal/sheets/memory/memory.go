package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"despesas/internal/core"
	ports "despesas/internal/sheets"
)

var _ ports.Store = (*Store)(nil)

// Store keeps rows in process memory. Rows are kept in their encoded text
// form so reads go through the same decoding as the remote stores.
type Store struct {
	mu   sync.Mutex
	rows []ports.Row
}

func New(rows ...ports.Row) *Store {
	return &Store{rows: append([]ports.Row(nil), rows...)}
}

// NewFromFile seeds the store from a pipe-separated file with one
// "date | item | amount | category | description" row per line. A missing
// file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var rows []ports.Row
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "|")
		for len(cols) < len(ports.Headers) {
			cols = append(cols, "")
		}
		rows = append(rows, ports.Row{
			Date:        strings.TrimSpace(cols[0]),
			Item:        strings.TrimSpace(cols[1]),
			Amount:      strings.TrimSpace(cols[2]),
			Category:    strings.TrimSpace(cols[3]),
			Description: strings.TrimSpace(cols[4]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return New(rows...), nil
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, ports.EncodeRow(e))
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// ReadAll returns a copy of every row in insertion order.
func (s *Store) ReadAll(_ context.Context) ([]ports.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.Row(nil), s.rows...), nil
}
