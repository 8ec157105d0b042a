package service

import (
	"context"

	"github.com/xxxsen/docindex/internal/model"
)

// ChunkStore is the index persistence contract: append/replace per file,
// full per-user scan, and the indexed-file set the planner diffs against.
type ChunkStore interface {
	ReplaceChunks(ctx context.Context, userID, fileID string, chunks []*model.EmbeddingChunk) error
	ListByUser(ctx context.Context, userID string) ([]*model.EmbeddingChunk, error)
	FileIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	CountFiles(ctx context.Context, userID string) (int, error)
}

type DocumentStore interface {
	Upsert(ctx context.Context, doc *model.Document) error
	ListByUser(ctx context.Context, userID string) ([]model.Document, error)
}
