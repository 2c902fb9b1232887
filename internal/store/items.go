package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/martomarzo/shutupandtakemythings/internal/model"
)

const itemColumns = `id, name, price, category, description, height, length, depth,
	color, material, condition, notes, image_path, status, date_added, date_updated`

// CreateItem inserts a new item and returns its ID.
func CreateItem(ctx context.Context, db *sql.DB, f model.ItemFields, imagePath string, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (
			name, price, category, description, height, length, depth,
			color, material, condition, notes, image_path, status, date_added, date_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Name, f.Price, f.Category, nullString(f.Description), f.Height, f.Length, f.Depth,
		nullString(f.Color), nullString(f.Material), f.Condition, nullString(f.Notes),
		nullString(imagePath), f.Status, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}
	return id, nil
}

// GetItem returns an item by ID, or ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the filter, newest first.
func ListItems(ctx context.Context, db *sql.DB, filter model.ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query += ` AND (name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY date_added DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem replaces every editable field of an item. The image is left
// as it is.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, f model.ItemFields, now time.Time) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET
			name = ?, price = ?, category = ?, description = ?,
			height = ?, length = ?, depth = ?, color = ?, material = ?,
			condition = ?, notes = ?, status = ?, date_updated = ?
		 WHERE id = ?`,
		f.Name, f.Price, f.Category, nullString(f.Description),
		f.Height, f.Length, f.Depth, nullString(f.Color), nullString(f.Material),
		f.Condition, nullString(f.Notes), f.Status, now, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireAffected(result)
}

// UpdateItemWithImage replaces every editable field of an item and swaps its
// image from oldPath to newPath. It returns ErrNotFound when the item is gone
// or its image is no longer oldPath.
func UpdateItemWithImage(ctx context.Context, db *sql.DB, id int64, f model.ItemFields, oldPath, newPath string, now time.Time) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET
			name = ?, price = ?, category = ?, description = ?,
			height = ?, length = ?, depth = ?, color = ?, material = ?,
			condition = ?, notes = ?, image_path = ?, status = ?, date_updated = ?
		 WHERE id = ? AND image_path IS ?`,
		f.Name, f.Price, f.Category, nullString(f.Description),
		f.Height, f.Length, f.Depth, nullString(f.Color), nullString(f.Material),
		f.Condition, nullString(f.Notes), nullString(newPath), f.Status, now,
		id, nullString(oldPath),
	)
	if err != nil {
		return fmt.Errorf("updating item image: %w", err)
	}
	return requireAffected(result)
}

// UpdateItemStatus sets an item's status.
func UpdateItemStatus(ctx context.Context, db *sql.DB, id int64, status string, now time.Time) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, date_updated = ? WHERE id = ?`,
		status, now, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return requireAffected(result)
}

// DeleteItem permanently removes an item row.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	var item model.Item
	var description, color, material, notes, imagePath sql.NullString
	var height, length, depth sql.NullFloat64
	err := row.Scan(
		&item.ID, &item.Name, &item.Price, &item.Category, &description,
		&height, &length, &depth, &color, &material, &item.Condition, &notes,
		&imagePath, &item.Status, &item.DateAdded, &item.DateUpdated,
	)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Color = color.String
	item.Material = material.String
	item.Notes = notes.String
	item.ImagePath = imagePath.String
	item.Height = nullFloat(height)
	item.Length = nullFloat(length)
	item.Depth = nullFloat(depth)
	return &item, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
