// Package store is the record store client: table-level insert, update,
// delete and select against a relational database, filtered by single-column
// equality. Each call is an independent remote operation; nothing here spans
// statements or offers transactions.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Row is one table row keyed by column name. Embedded tables appear as nested Rows.
type Row map[string]any

// Eq is an equality predicate on a single column.
type Eq struct {
	Column string
	Value  any
}

// EqualTo builds an equality predicate.
func EqualTo(column string, value any) Eq {
	return Eq{Column: column, Value: value}
}

// Embed joins a many-to-one related table into each selected row. The embedded
// row is keyed by Table, matching Table.ForeignKey against LocalKey.
type Embed struct {
	Table      string
	Columns    []string
	LocalKey   string
	ForeignKey string
}

// Projection lists the selected columns (all when empty) and embedded tables.
type Projection struct {
	Columns []string
	Embeds  []Embed
}

// All selects every column of the table and nothing else.
var All = Projection{}

// Client is implemented by every record store backend.
type Client interface {
	Insert(ctx context.Context, table string, rows ...Row) ([]Row, error)
	Update(ctx context.Context, table string, eq Eq, patch Row) ([]Row, error)
	Delete(ctx context.Context, table string, eq Eq) error
	Select(ctx context.Context, table string, projection Projection, eq *Eq) ([]Row, error)
}

// ErrInvalidIdentifier is returned for table or column names that are not plain identifiers.
var ErrInvalidIdentifier = errors.New("store: invalid identifier")

// Error is a failure reported by the store backend.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("store: ")
	if e.Code != "" {
		fmt.Fprintf(&b, "%s: ", e.Code)
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		fmt.Fprintf(&b, "status %d", e.Status)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, " (%s)", e.Details)
	}
	return b.String()
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return nil
}

func (p Projection) identifiers() []string {
	names := append([]string{}, p.Columns...)
	for _, e := range p.Embeds {
		names = append(names, e.Table, e.LocalKey, e.ForeignKey)
		names = append(names, e.Columns...)
	}
	return names
}

// RowOf converts a JSON-tagged struct into a Row.
func RowOf(v any) (Row, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode row: %w", err)
	}
	var row Row
	if err := json.Unmarshal(payload, &row); err != nil {
		return nil, fmt.Errorf("store: encode row: %w", err)
	}
	return row, nil
}

// Decode converts rows into a slice of JSON-tagged structs pointed to by out.
func Decode(rows []Row, out any) error {
	if rows == nil {
		rows = []Row{}
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("store: decode rows: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("store: decode rows: %w", err)
	}
	return nil
}
