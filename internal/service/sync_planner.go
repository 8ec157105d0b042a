package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docindex/internal/model"
	"github.com/xxxsen/docindex/internal/source"
)

const (
	forceReindexFetchFactor = 3
	newFilesFetchFactor     = 5
	perMimeFetchSize        = 50
)

// supportedMimeTypes is the fixed allow-list of processable formats. Files
// of any other type are excluded before they reach the embedding pipeline.
var supportedMimeTypes = []string{
	source.MimeGoogleDoc,
	source.MimeGoogleSheet,
	source.MimeGoogleSlides,
	source.MimePlainText,
	source.MimeMarkdown,
}

func isSupportedMime(mime string) bool {
	for _, supported := range supportedMimeTypes {
		if mime == supported {
			return true
		}
	}
	return false
}

// SyncPlanner decides which files a sync pass should (re)process.
type SyncPlanner struct {
	src source.Source
}

func NewSyncPlanner(src source.Source) *SyncPlanner {
	return &SyncPlanner{src: src}
}

// Plan selects up to limit files under the given strategy. Candidates are
// examined most-recently-modified first so a bounded pass indexes the most
// relevant files.
func (p *SyncPlanner) Plan(ctx context.Context, strategy model.SyncStrategy, limit int, indexed map[string]struct{}) (*model.SyncDecision, error) {
	switch strategy {
	case model.StrategyForceReindex:
		return p.planForceReindex(ctx, limit)
	default:
		return p.planNewFilesOnly(ctx, limit, indexed)
	}
}

// planForceReindex reprocesses the most recent supported files regardless of
// indexed state. Callers must invalidate a file's prior chunks before
// re-storing, otherwise stale chunks would pollute rankings.
func (p *SyncPlanner) planForceReindex(ctx context.Context, limit int) (*model.SyncDecision, error) {
	candidates, err := p.src.ListCandidates(ctx, source.ListOptions{PageSize: limit * forceReindexFetchFactor})
	if err != nil {
		return nil, err
	}
	decision := &model.SyncDecision{
		Strategy:  model.StrategyForceReindex,
		TotalSeen: len(candidates),
	}
	for _, candidate := range candidates {
		if !isSupportedMime(candidate.MimeType) {
			continue
		}
		decision.Processable++
		if len(decision.Files) < limit {
			decision.Files = append(decision.Files, candidate)
		}
	}
	return decision, nil
}

func (p *SyncPlanner) planNewFilesOnly(ctx context.Context, limit int, indexed map[string]struct{}) (*model.SyncDecision, error) {
	logger := logutil.GetLogger(ctx)
	candidates, err := p.src.ListCandidates(ctx, source.ListOptions{PageSize: limit * newFilesFetchFactor})
	if err != nil {
		return nil, err
	}
	decision := &model.SyncDecision{
		Strategy:  model.StrategyNewFilesOnly,
		TotalSeen: len(candidates),
	}
	// A file is examined at most once across both phases, so the diagnostic
	// counts keep one meaning: Processable is distinct supported files seen,
	// AlreadyIndexed the subset of those that are already in the index.
	examined := make(map[string]struct{})
	consider := func(candidate model.Document) {
		if !isSupportedMime(candidate.MimeType) {
			return
		}
		if _, ok := examined[candidate.FileID]; ok {
			return
		}
		examined[candidate.FileID] = struct{}{}
		decision.Processable++
		if _, ok := indexed[candidate.FileID]; ok {
			decision.AlreadyIndexed++
			return
		}
		decision.Files = append(decision.Files, candidate)
	}
	for _, candidate := range candidates {
		consider(candidate)
	}

	// Broaden per MIME type when the recent listing alone cannot fill the
	// budget; some unprocessed files may sit further back in time.
	if len(decision.Files) < limit {
		for _, mime := range supportedMimeTypes {
			if len(decision.Files) >= limit {
				break
			}
			extra, err := p.src.ListCandidates(ctx, source.ListOptions{PageSize: perMimeFetchSize, MimeType: mime})
			if err != nil {
				logger.Warn("broadened candidate listing failed", zap.String("mime_type", mime), zap.Error(err))
				continue
			}
			decision.TotalSeen += len(extra)
			for _, candidate := range extra {
				if len(decision.Files) >= limit {
					break
				}
				consider(candidate)
			}
		}
	}
	if len(decision.Files) > limit {
		decision.Files = decision.Files[:limit]
	}
	// Everything already indexed is the normal steady state, not an error.
	if len(decision.Files) == 0 {
		decision.UpToDate = true
	}
	return decision, nil
}
