package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/docindex/internal/model"
	"github.com/xxxsen/docindex/internal/pkg/dbutil"
)

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Upsert records the metadata of a file observed during a sync pass. The
// core never deletes documents; removal is the source's business.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *model.Document) error {
	data := map[string]interface{}{
		"user_id":       doc.UserID,
		"file_id":       doc.FileID,
		"name":          doc.Name,
		"mime_type":     doc.MimeType,
		"modified_time": doc.ModifiedTime.UnixMilli(),
		"size":          doc.Size,
		"folder_path":   doc.FolderPath,
	}
	sqlStr, args, err := builder.BuildInsert("documents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr += ` ON CONFLICT (user_id, file_id) DO UPDATE SET
		name = EXCLUDED.name,
		mime_type = EXCLUDED.mime_type,
		modified_time = EXCLUDED.modified_time,
		size = EXCLUDED.size,
		folder_path = EXCLUDED.folder_path`
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListByUser returns all known document metadata for a user, most recently
// modified first.
func (r *DocumentRepo) ListByUser(ctx context.Context, userID string) ([]model.Document, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "modified_time desc",
	}
	sqlStr, args, err := builder.BuildSelect("documents",
		where, []string{"user_id", "file_id", "name", "mime_type", "modified_time", "size", "folder_path"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		var mtime int64
		if err := rows.Scan(&doc.UserID, &doc.FileID, &doc.Name, &doc.MimeType, &mtime, &doc.Size, &doc.FolderPath); err != nil {
			return nil, err
		}
		doc.ModifiedTime = time.UnixMilli(mtime)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
