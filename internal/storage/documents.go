package storage

import (
	"context"
	"fmt"
	"time"

	"coown/internal/core"
)

func (r *SQLiteRepository) CreateDocument(ctx context.Context, itemID string, d core.Document) error {
	uploadedAt := d.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, item_id, name, mime_type, url, uploaded_by, uploaded_at, size_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, itemID, d.Name, d.Type, d.URL, d.UploadedBy, uploadedAt.Unix(), d.Size)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListDocuments(ctx context.Context, itemID string) ([]core.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, mime_type, url, uploaded_by, uploaded_at, size_bytes
		 FROM documents WHERE item_id = ? ORDER BY uploaded_at, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var (
			d          core.Document
			uploadedAt int64
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &d.URL, &d.UploadedBy, &uploadedAt, &d.Size); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.UploadedAt = time.Unix(uploadedAt, 0).UTC()
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}
