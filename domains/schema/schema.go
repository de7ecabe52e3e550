package schema

import (
	"context"
	"time"
)

type ISchemaUsecase interface {
	ListTables(ctx context.Context, connectionID string) ([]Table, error)
	GetTableSchema(ctx context.Context, connectionID, table string) (TableSchema, error)
	ListChanges(ctx context.Context, connectionID string) ([]Change, error)
	DetectChanges(ctx context.Context, connectionID string) ([]Change, error)
}

type Table struct {
	Name        string `json:"name"`
	Schema      string `json:"schema,omitempty"`
	RowCount    int64  `json:"row_count"`
	ColumnCount int    `json:"column_count"`
}

type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default,omitempty"`
}

type TableSchema struct {
	Table   Table    `json:"table"`
	Columns []Column `json:"columns"`
}

// Change is one detected schema drift event: a column added, dropped or
// retyped since the previous snapshot.
type Change struct {
	ID         string    `json:"id"`
	TableName  string    `json:"table_name"`
	ColumnName string    `json:"column_name,omitempty"`
	ChangeType string    `json:"change_type"` // "column_added", "column_dropped", "type_changed", "table_dropped"
	Before     string    `json:"before,omitempty"`
	After      string    `json:"after,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
}
