package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/xxxsen/docindex/internal/ai"
	"github.com/xxxsen/docindex/internal/model"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
)

const defaultSearchLimit = 10

type SearchResult struct {
	FileID     string              `json:"file_id"`
	FileName   string              `json:"file_name"`
	Content    string              `json:"content"`
	Similarity float64             `json:"similarity"`
	Metadata   model.ChunkMetadata `json:"metadata"`
}

// SearchService ranks a user's indexed files against a query by cosine
// similarity over their chunk embeddings.
type SearchService struct {
	chunks   ChunkStore
	embedder ai.IEmbedder
	locks    *UserLocks
}

func NewSearchService(chunks ChunkStore, embedder ai.IEmbedder, locks *UserLocks) *SearchService {
	return &SearchService{chunks: chunks, embedder: embedder, locks: locks}
}

func (s *SearchService) Search(ctx context.Context, userID, query string, limit int) ([]SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", appErr.ErrInvalid)
	}
	vector, err := s.embedder.Embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.SearchByVector(ctx, userID, vector, limit)
}

// SearchByVector collapses chunk-level hits to one result per file, keeping
// the best-matching chunk as its snippet.
func (s *SearchService) SearchByVector(ctx context.Context, userID string, vector []float32, limit int) ([]SearchResult, error) {
	if isZeroVector(vector) {
		return nil, appErr.ErrEmbeddingUnavailable
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	lock := s.locks.Get(userID)
	lock.RLock()
	defer lock.RUnlock()

	chunks, err := s.chunks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	best := make(map[string]SearchResult, len(chunks))
	for _, chunk := range chunks {
		similarity := cosineSimilarity(vector, chunk.Vector)
		prev, ok := best[chunk.FileID]
		if ok && prev.Similarity >= similarity {
			continue
		}
		best[chunk.FileID] = SearchResult{
			FileID:     chunk.FileID,
			FileName:   chunk.Metadata.FileName,
			Content:    chunk.Content,
			Similarity: similarity,
			Metadata:   chunk.Metadata,
		}
	}
	results := make([]SearchResult, 0, len(best))
	for _, result := range best {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].FileID < results[j].FileID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func isZeroVector(vector []float32) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}

// cosineSimilarity returns 0 for mismatched lengths or zero-magnitude
// vectors rather than NaN.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
