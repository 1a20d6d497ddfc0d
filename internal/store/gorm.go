package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// embedSeparator joins an embedded table name and column in result aliases.
const embedSeparator = "__"

// GormClient runs record store operations directly against a SQL database.
// Embedded tables are LEFT JOINed and nested the same way PostgREST nests them.
type GormClient struct {
	db *gorm.DB
}

var _ Client = (*GormClient)(nil)

// NewGormClient wraps an opened GORM connection.
func NewGormClient(db *gorm.DB) *GormClient {
	return &GormClient{db: db}
}

// Insert creates rows. The rows are returned as submitted; defaults filled by
// the database are not read back.
func (c *GormClient) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Row{}, nil
	}
	values := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		if err := checkIdentifiers(columnsOf(row)...); err != nil {
			return nil, err
		}
		values = append(values, map[string]interface{}(row))
	}
	if err := c.db.WithContext(ctx).Table(table).Create(values).Error; err != nil {
		return nil, fmt.Errorf("store: insert %s: %w", table, err)
	}
	return rows, nil
}

// Update applies patch to the rows matching eq and reads them back.
func (c *GormClient) Update(ctx context.Context, table string, eq Eq, patch Row) ([]Row, error) {
	if err := checkIdentifiers(append([]string{table, eq.Column}, columnsOf(patch)...)...); err != nil {
		return nil, err
	}
	err := c.db.WithContext(ctx).Table(table).
		Where(c.where(table, eq)).
		Updates(map[string]interface{}(patch)).Error
	if err != nil {
		return nil, fmt.Errorf("store: update %s: %w", table, err)
	}
	if value, ok := patch[eq.Column]; ok {
		eq.Value = value
	}
	return c.Select(ctx, table, All, &eq)
}

// Delete removes the rows matching eq.
func (c *GormClient) Delete(ctx context.Context, table string, eq Eq) error {
	if err := checkIdentifiers(table, eq.Column); err != nil {
		return err
	}
	err := c.db.WithContext(ctx).
		Exec("DELETE FROM ? WHERE ? = ?", clause.Table{Name: table}, clause.Column{Name: eq.Column}, eq.Value).Error
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", table, err)
	}
	return nil
}

// Select reads rows matching eq (all rows when eq is nil).
func (c *GormClient) Select(ctx context.Context, table string, projection Projection, eq *Eq) ([]Row, error) {
	names := append([]string{table}, projection.identifiers()...)
	if eq != nil {
		names = append(names, eq.Column)
	}
	if err := checkIdentifiers(names...); err != nil {
		return nil, err
	}

	q := c.db.WithContext(ctx).Table(table)
	selects := make([]string, 0, len(projection.Columns)+1)
	if len(projection.Columns) == 0 {
		selects = append(selects, c.quote(clause.Column{Table: table, Name: "*", Raw: true}))
	}
	for _, col := range projection.Columns {
		selects = append(selects, c.quote(clause.Column{Table: table, Name: col}))
	}
	for _, e := range projection.Embeds {
		q = q.Joins(fmt.Sprintf("LEFT JOIN %s ON %s = %s",
			c.quote(clause.Table{Name: e.Table}),
			c.quote(clause.Column{Table: e.Table, Name: e.ForeignKey}),
			c.quote(clause.Column{Table: table, Name: e.LocalKey}),
		))
		for _, col := range e.Columns {
			selects = append(selects, c.quote(clause.Column{
				Table: e.Table,
				Name:  col,
				Alias: e.Table + embedSeparator + col,
			}))
		}
	}
	q = q.Select(strings.Join(selects, ", "))
	if eq != nil {
		q = q.Where(c.where(table, *eq))
	}

	var found []map[string]interface{}
	if err := q.Find(&found).Error; err != nil {
		return nil, fmt.Errorf("store: select %s: %w", table, err)
	}

	rows := make([]Row, 0, len(found))
	for _, raw := range found {
		rows = append(rows, nest(raw, projection.Embeds))
	}
	return rows, nil
}

func (c *GormClient) where(table string, eq Eq) clause.Eq {
	return clause.Eq{Column: clause.Column{Table: table, Name: eq.Column}, Value: eq.Value}
}

func (c *GormClient) quote(field interface{}) string {
	return c.db.Statement.Quote(field)
}

// nest normalises driver values and folds "table__column" aliases into
// embedded rows. An embed whose columns are all NULL (no joined row) is nil.
func nest(raw map[string]interface{}, embeds []Embed) Row {
	row := make(Row, len(raw))
	for key, value := range raw {
		if b, ok := value.([]byte); ok {
			value = string(b)
		}
		row[key] = value
	}
	for _, e := range embeds {
		embedded := Row{}
		matched := false
		for _, col := range e.Columns {
			key := e.Table + embedSeparator + col
			value := row[key]
			delete(row, key)
			if value != nil {
				matched = true
			}
			embedded[col] = value
		}
		if matched {
			row[e.Table] = embedded
		} else {
			row[e.Table] = nil
		}
	}
	return row
}

func columnsOf(row Row) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	return cols
}
