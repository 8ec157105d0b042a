package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/xxxsen/docindex/internal/model"
)

type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// ReplaceChunks atomically swaps a file's chunk set: prior chunks are
// invalidated and the new ones land in the same transaction, so a file is
// never half-indexed and force_reindex never leaves stale rows behind.
func (r *ChunkRepo) ReplaceChunks(ctx context.Context, userID, fileID string, chunks []*model.EmbeddingChunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const deleteQuery = `DELETE FROM document_chunks WHERE user_id = $1 AND file_id = $2`
	if _, err := tx.ExecContext(ctx, deleteQuery, userID, fileID); err != nil {
		return fmt.Errorf("invalidate chunks for %s: %w", fileID, err)
	}
	const insertQuery = `
		INSERT INTO document_chunks
			(user_id, file_id, chunk_idx, content, embedding, file_name, folder_path, chunk_count, original_length, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, chunk := range chunks {
		_, err := tx.ExecContext(ctx, insertQuery,
			userID,
			fileID,
			chunk.ChunkIndex,
			chunk.Content,
			pgvector.NewVector(chunk.Vector),
			chunk.Metadata.FileName,
			chunk.Metadata.FolderPath,
			chunk.Metadata.ChunkCount,
			chunk.Metadata.OriginalLength,
			chunk.Metadata.ProcessedAt,
		)
		if err != nil {
			return fmt.Errorf("store chunk %s/%d: %w", fileID, chunk.ChunkIndex, err)
		}
	}
	return tx.Commit()
}

// ListByUser scans every chunk of a user's index, ordered by file and chunk
// position so per-file projections see chunk 0 first.
func (r *ChunkRepo) ListByUser(ctx context.Context, userID string) ([]*model.EmbeddingChunk, error) {
	const query = `
		SELECT file_id, chunk_idx, content, embedding, file_name, folder_path, chunk_count, original_length, processed_at
		FROM document_chunks
		WHERE user_id = $1
		ORDER BY file_id, chunk_idx
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var chunks []*model.EmbeddingChunk
	for rows.Next() {
		chunk := &model.EmbeddingChunk{UserID: userID}
		var embedding pgvector.Vector
		if err := rows.Scan(
			&chunk.FileID,
			&chunk.ChunkIndex,
			&chunk.Content,
			&embedding,
			&chunk.Metadata.FileName,
			&chunk.Metadata.FolderPath,
			&chunk.Metadata.ChunkCount,
			&chunk.Metadata.OriginalLength,
			&chunk.Metadata.ProcessedAt,
		); err != nil {
			return nil, err
		}
		chunk.Vector = embedding.Slice()
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (r *ChunkRepo) FileIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	const query = `SELECT DISTINCT file_id FROM document_chunks WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (r *ChunkRepo) CountFiles(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(DISTINCT file_id) FROM document_chunks WHERE user_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
