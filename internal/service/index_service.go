package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xxxsen/docindex/internal/ai"
	"github.com/xxxsen/docindex/internal/model"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
	"github.com/xxxsen/docindex/internal/source"
	"github.com/xxxsen/docindex/internal/textproc"
)

var errEmptyContent = errors.New("no usable content")

// IndexService drives one sync pass: plan which files need work, fetch and
// chunk their content, embed every chunk, and store each file's chunks as
// one atomic unit.
type IndexService struct {
	planner      *SyncPlanner
	src          source.Source
	embedder     ai.IEmbedder
	chunks       ChunkStore
	docs         DocumentStore
	locks        *UserLocks
	maxChunkSize int
	concurrency  int

	mu          sync.Mutex
	lastReports map[string]*model.SyncReport
}

func NewIndexService(
	planner *SyncPlanner,
	src source.Source,
	embedder ai.IEmbedder,
	chunks ChunkStore,
	docs DocumentStore,
	locks *UserLocks,
	maxChunkSize int,
	concurrency int,
) *IndexService {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &IndexService{
		planner:      planner,
		src:          src,
		embedder:     embedder,
		chunks:       chunks,
		docs:         docs,
		locks:        locks,
		maxChunkSize: maxChunkSize,
		concurrency:  concurrency,
		lastReports:  make(map[string]*model.SyncReport),
	}
}

// statusRecentDocuments caps the document listing in a status response.
const statusRecentDocuments = 10

type SyncStatus struct {
	IndexedFiles    int               `json:"indexed_files"`
	LastSync        *model.SyncReport `json:"last_sync"`
	RecentDocuments []model.Document  `json:"recent_documents"`
}

// Sync runs one pass for a user. Files are processed with a bounded
// fan-out; a failing file is counted, never fatal to the batch.
// Cancellation between files leaves already-stored chunks intact.
func (s *IndexService) Sync(ctx context.Context, userID string, strategy model.SyncStrategy, limit int) (*model.SyncReport, error) {
	switch strategy {
	case model.StrategyNewFilesOnly, model.StrategyForceReindex:
	case "":
		strategy = model.StrategyNewFilesOnly
	default:
		return nil, fmt.Errorf("unknown sync strategy %q: %w", strategy, appErr.ErrInvalid)
	}
	if limit <= 0 {
		limit = 20
	}
	if !s.embedder.IsAvailable() {
		return nil, ai.ErrUnavailable
	}
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", userID), zap.String("strategy", string(strategy)))

	lock := s.locks.Get(userID)
	lock.Lock()
	defer lock.Unlock()

	indexed, err := s.chunks.FileIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	decision, err := s.planner.Plan(ctx, strategy, limit, indexed)
	if err != nil {
		return nil, err
	}
	if decision.UpToDate {
		logger.Info("index up to date",
			zap.Int("total_seen", decision.TotalSeen),
			zap.Int("already_indexed", decision.AlreadyIndexed),
		)
		return s.finishReport(userID, &model.SyncReport{
			Strategy: strategy,
			UpToDate: true,
		}), nil
	}
	logger.Info("sync pass planned",
		zap.Int("files", len(decision.Files)),
		zap.Int("total_seen", decision.TotalSeen),
		zap.Int("processable", decision.Processable),
	)

	var processed, skipped, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, doc := range decision.Files {
		doc := doc
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			err := s.processFile(ctx, userID, doc)
			switch {
			case err == nil:
				processed.Add(1)
			case errors.Is(err, appErr.ErrUnsupportedFormat), errors.Is(err, errEmptyContent):
				skipped.Add(1)
			default:
				failed.Add(1)
				logger.Warn("file indexing failed", zap.String("file_id", doc.FileID), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	report := s.finishReport(userID, &model.SyncReport{
		Strategy:  strategy,
		Total:     len(decision.Files),
		Processed: int(processed.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	})
	logger.Info("sync pass finished",
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// processFile stores one file's chunks as a unit. Chunks are embedded in
// order so chunk indexes stay contiguous from 0 regardless of how files
// interleave.
func (s *IndexService) processFile(ctx context.Context, userID string, doc model.Document) error {
	content, err := s.src.GetContent(ctx, doc)
	if err != nil {
		return err
	}
	if doc.MimeType == source.MimeMarkdown {
		content = textproc.ExtractMarkdown(content)
	}
	pieces := textproc.Chunk(content, s.maxChunkSize)
	if len(pieces) == 0 {
		return errEmptyContent
	}
	now := time.Now().UnixMilli()
	chunks := make([]*model.EmbeddingChunk, 0, len(pieces))
	for i, piece := range pieces {
		vector, err := s.embedder.Embed(ctx, piece, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return fmt.Errorf("embed chunk %d of %s: %w", i, doc.FileID, err)
		}
		chunks = append(chunks, &model.EmbeddingChunk{
			FileID:     doc.FileID,
			UserID:     userID,
			ChunkIndex: i,
			Content:    piece,
			Vector:     vector,
			Metadata: model.ChunkMetadata{
				FileName:       doc.Name,
				FolderPath:     doc.FolderPath,
				ChunkCount:     len(pieces),
				OriginalLength: len(content),
				ProcessedAt:    now,
			},
		})
	}
	if err := s.chunks.ReplaceChunks(ctx, userID, doc.FileID, chunks); err != nil {
		return err
	}
	doc.UserID = userID
	return s.docs.Upsert(ctx, &doc)
}

func (s *IndexService) Status(ctx context.Context, userID string) (*SyncStatus, error) {
	count, err := s.chunks.CountFiles(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(recent) > statusRecentDocuments {
		recent = recent[:statusRecentDocuments]
	}
	s.mu.Lock()
	last := s.lastReports[userID]
	s.mu.Unlock()
	return &SyncStatus{IndexedFiles: count, LastSync: last, RecentDocuments: recent}, nil
}

func (s *IndexService) finishReport(userID string, report *model.SyncReport) *model.SyncReport {
	report.FinishedAt = time.Now().UnixMilli()
	s.mu.Lock()
	s.lastReports[userID] = report
	s.mu.Unlock()
	return report
}
