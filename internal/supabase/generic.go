package supabase

import (
	"context"
	"encoding/json"
	"strconv"
)

// One reads the single row id from table, (nil, nil) when absent.
func One[T any](ctx context.Context, c *Client, table string, id int64, sel string) (*T, error) {
	var rows []T
	q := Query{Filters: map[string]string{"id": strconv.FormatInt(id, 10)}, Select: sel}
	if err := c.Select(ctx, table, q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// All reads every row matching q. The result is non-nil even when empty so
// handlers serialize [] instead of null.
func All[T any](ctx context.Context, c *Client, table string, q Query) ([]T, error) {
	rows := []T{}
	if err := c.Select(ctx, table, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertOne creates a row and decodes the echoed representation,
// (nil, nil) when the store did not echo a usable body.
func InsertOne[T any](ctx context.Context, c *Client, table string, record any) (*T, error) {
	raw, err := c.Insert(ctx, table, record)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, nil
	}
	return &out, nil
}

// UpdateOne patches row id and returns the updated representation.
func UpdateOne[T any](ctx context.Context, c *Client, table string, id int64, patch map[string]any) (*T, error) {
	var out T
	if err := c.Update(ctx, table, id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
