package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xxxsen/docindex/internal/model"
	"github.com/xxxsen/docindex/internal/source"
)

// memChunkStore is an in-memory ChunkStore for service tests.
type memChunkStore struct {
	mu     sync.Mutex
	chunks map[string][]*model.EmbeddingChunk
}

func newMemChunkStore() *memChunkStore {
	return &memChunkStore{chunks: make(map[string][]*model.EmbeddingChunk)}
}

func (s *memChunkStore) ReplaceChunks(ctx context.Context, userID, fileID string, chunks []*model.EmbeddingChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[userID][:0:0]
	for _, chunk := range s.chunks[userID] {
		if chunk.FileID != fileID {
			kept = append(kept, chunk)
		}
	}
	s.chunks[userID] = append(kept, chunks...)
	return nil
}

func (s *memChunkStore) ListByUser(ctx context.Context, userID string) ([]*model.EmbeddingChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.EmbeddingChunk, len(s.chunks[userID]))
	copy(out, s.chunks[userID])
	return out, nil
}

func (s *memChunkStore) FileIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]struct{})
	for _, chunk := range s.chunks[userID] {
		ids[chunk.FileID] = struct{}{}
	}
	return ids, nil
}

func (s *memChunkStore) CountFiles(ctx context.Context, userID string) (int, error) {
	ids, _ := s.FileIDs(ctx, userID)
	return len(ids), nil
}

type memDocStore struct {
	mu   sync.Mutex
	docs map[string]*model.Document
}

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: make(map[string]*model.Document)}
}

func (s *memDocStore) Upsert(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.UserID+"/"+doc.FileID] = doc
	return nil
}

func (s *memDocStore) ListByUser(ctx context.Context, userID string) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Document
	for _, doc := range s.docs {
		if doc.UserID == userID {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ModifiedTime.After(out[j].ModifiedTime)
	})
	return out, nil
}

// fakeEmbedder returns a fixed vector, or an error for texts containing the
// trigger word "unembeddable".
type fakeEmbedder struct {
	vector    []float32
	available bool
	embedFn   func(text, taskType string) ([]float32, error)
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vector: []float32{1, 0, 0}, available: true}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.embedFn != nil {
		return f.embedFn(text, taskType)
	}
	out := make([]float32, len(f.vector))
	copy(out, f.vector)
	return out, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embedding-001"
}

func (f *fakeEmbedder) IsAvailable() bool {
	return f.available
}

// fakeSource serves a fixed candidate list ordered as given (callers assume
// most-recent-first) and per-file contents.
type fakeSource struct {
	files    []model.Document
	contents map[string]string
	errs     map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{contents: make(map[string]string), errs: make(map[string]error)}
}

func (f *fakeSource) ListCandidates(ctx context.Context, opts source.ListOptions) ([]model.Document, error) {
	var out []model.Document
	for _, file := range f.files {
		if opts.MimeType != "" && file.MimeType != opts.MimeType {
			continue
		}
		out = append(out, file)
		if opts.PageSize > 0 && len(out) >= opts.PageSize {
			break
		}
	}
	return out, nil
}

func (f *fakeSource) GetContent(ctx context.Context, file model.Document) (string, error) {
	if err := f.errs[file.FileID]; err != nil {
		return "", err
	}
	return f.contents[file.FileID], nil
}

// fakeExecutor records folder and shortcut calls; fileIDs in failOn fail.
type fakeExecutor struct {
	folders   []string
	shortcuts []string
	failOn    map[string]error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{failOn: make(map[string]error)}
}

func (f *fakeExecutor) CreateFolder(ctx context.Context, name string) (string, error) {
	f.folders = append(f.folders, name)
	return "folder-" + strings.ToLower(name), nil
}

func (f *fakeExecutor) CreateShortcut(ctx context.Context, fileID, fileName, folderID string) error {
	if err := f.failOn[fileID]; err != nil {
		return err
	}
	f.shortcuts = append(f.shortcuts, fileID)
	return nil
}
