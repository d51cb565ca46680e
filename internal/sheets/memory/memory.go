// Package memory is an in-memory sheets adapter for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rmuratov/brofund/internal/sheets"
)

type Appender struct {
	mu   sync.Mutex
	rows [][]string
}

var _ sheets.RowAppender = (*Appender)(nil)

func New() *Appender {
	return &Appender{}
}

func (a *Appender) Append(_ context.Context, row []string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rows = append(a.rows, row)

	return fmt.Sprintf("row:%d", len(a.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (a *Appender) Rows() [][]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows := make([][]string, len(a.rows))
	for i, row := range a.rows {
		rows[i] = append([]string(nil), row...)
	}

	return rows
}
