// Package storetest provides an in-memory store.Client for tests.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"legumes/internal/store"
)

// Operation names accepted by Fail.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpSelect = "select"
)

// Memory is a thread-safe in-memory record store. Values are compared by
// their fmt.Sprint form, so uuid.UUID and string ids match each other.
type Memory struct {
	mu       sync.Mutex
	tables   map[string][]store.Row
	keys     map[string][]string
	failures map[string]error
	hangs    map[string]bool
	calls    []string
}

var _ store.Client = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		tables:   map[string][]store.Row{},
		keys:     map[string][]string{},
		failures: map[string]error{},
		hangs:    map[string]bool{},
	}
}

// PrimaryKey declares the columns that must be unique in table.
func (m *Memory) PrimaryKey(table string, columns ...string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[table] = columns
	return m
}

// Fail makes every later op on table return err.
func (m *Memory) Fail(op, table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+":"+table] = err
}

// Hang makes every later op on table block until its context is done.
func (m *Memory) Hang(op, table string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hangs[op+":"+table] = true
}

// wait blocks a hung op until ctx ends.
func (m *Memory) wait(ctx context.Context, op, table string) error {
	m.mu.Lock()
	hang := m.hangs[op+":"+table]
	m.mu.Unlock()
	if !hang {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

// Rows returns a copy of the rows currently stored in table.
func (m *Memory) Rows(table string) []store.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Row, 0, len(m.tables[table]))
	for _, row := range m.tables[table] {
		out = append(out, clone(row))
	}
	return out
}

// Calls lists the operations performed so far as "op:table".
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Memory) begin(op, table string) error {
	m.calls = append(m.calls, op+":"+table)
	return m.failures[op+":"+table]
}

func (m *Memory) Insert(ctx context.Context, table string, rows ...store.Row) ([]store.Row, error) {
	if err := m.wait(ctx, OpInsert, table); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpInsert, table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if m.conflicts(table, row) {
			return nil, &store.Error{Status: 409, Code: "23505", Message: fmt.Sprintf("duplicate key value violates unique constraint %q", table+"_pkey")}
		}
	}
	out := make([]store.Row, 0, len(rows))
	for _, row := range rows {
		stored := normalize(row)
		m.tables[table] = append(m.tables[table], stored)
		out = append(out, clone(stored))
	}
	return out, nil
}

func (m *Memory) Update(ctx context.Context, table string, eq store.Eq, patch store.Row) ([]store.Row, error) {
	if err := m.wait(ctx, OpUpdate, table); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpUpdate, table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []store.Row
	for _, row := range m.tables[table] {
		if !matches(row, &eq) {
			continue
		}
		for k, v := range normalize(patch) {
			row[k] = v
		}
		out = append(out, clone(row))
	}
	if out == nil {
		out = []store.Row{}
	}
	return out, nil
}

func (m *Memory) Delete(ctx context.Context, table string, eq store.Eq) error {
	if err := m.wait(ctx, OpDelete, table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpDelete, table); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	kept := m.tables[table][:0]
	for _, row := range m.tables[table] {
		if !matches(row, &eq) {
			kept = append(kept, row)
		}
	}
	m.tables[table] = kept
	return nil
}

func (m *Memory) Select(ctx context.Context, table string, projection store.Projection, eq *store.Eq) ([]store.Row, error) {
	if err := m.wait(ctx, OpSelect, table); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpSelect, table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []store.Row{}
	for _, row := range m.tables[table] {
		if !matches(row, eq) {
			continue
		}
		selected := store.Row{}
		if len(projection.Columns) == 0 {
			selected = clone(row)
		}
		for _, col := range projection.Columns {
			selected[col] = row[col]
		}
		for _, e := range projection.Embeds {
			selected[e.Table] = m.embed(row, e)
		}
		out = append(out, selected)
	}
	return out, nil
}

func (m *Memory) embed(row store.Row, e store.Embed) any {
	for _, other := range m.tables[e.Table] {
		if fmt.Sprint(other[e.ForeignKey]) != fmt.Sprint(row[e.LocalKey]) {
			continue
		}
		if len(e.Columns) == 0 {
			return clone(other)
		}
		embedded := store.Row{}
		for _, col := range e.Columns {
			embedded[col] = other[col]
		}
		return embedded
	}
	return nil
}

func (m *Memory) conflicts(table string, row store.Row) bool {
	cols := m.keys[table]
	if len(cols) == 0 {
		return false
	}
	for _, existing := range m.tables[table] {
		same := true
		for _, col := range cols {
			if fmt.Sprint(existing[col]) != fmt.Sprint(row[col]) {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

func matches(row store.Row, eq *store.Eq) bool {
	return eq == nil || fmt.Sprint(row[eq.Column]) == fmt.Sprint(eq.Value)
}

// normalize stores values in the string form a real backend would return them in.
func normalize(row store.Row) store.Row {
	out := make(store.Row, len(row))
	for k, v := range row {
		if s, ok := v.(fmt.Stringer); ok {
			v = s.String()
		}
		out[k] = v
	}
	return out
}

func clone(row store.Row) store.Row {
	out := make(store.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
