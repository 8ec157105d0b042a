package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/docindex/internal/model"
)

// Well-known MIME types of the corpus. The sync planner's allow-list is
// built from these.
const (
	MimeGoogleDoc    = "application/vnd.google-apps.document"
	MimeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeGoogleSlides = "application/vnd.google-apps.presentation"
	MimePlainText    = "text/plain"
	MimeMarkdown     = "text/markdown"
)

type ListOptions struct {
	PageSize int
	// MimeType narrows the listing to one type; empty lists everything.
	MimeType string
}

// Source is a Drive-like document store. ListCandidates returns metadata
// ordered most-recently-modified first; GetContent returns extracted text
// and fails with ErrUnsupportedFormat for types it cannot read.
type Source interface {
	ListCandidates(ctx context.Context, opts ListOptions) ([]model.Document, error)
	GetContent(ctx context.Context, file model.Document) (string, error)
}

// PlanExecutor applies an organization plan non-destructively: a new folder
// plus a shortcut per member, never moving the originals.
type PlanExecutor interface {
	CreateFolder(ctx context.Context, name string) (string, error)
	CreateShortcut(ctx context.Context, fileID, fileName, folderID string) error
}

type Factory func(ctx context.Context, args interface{}) (Source, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func New(ctx context.Context, typ string, args interface{}) (Source, error) {
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" {
		return nil, fmt.Errorf("source.type is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported source type: %s", typ)
	}
	return factory(ctx, args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("source config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode source config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode source config: %w", err)
	}
	return nil
}
