package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/xxxsen/docindex/internal/model"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
)

type driveConfig struct {
	CredentialsFile string `json:"credentials_file"`
}

type driveSource struct {
	svc *drive.Service

	mu          sync.Mutex
	folderNames map[string]string
}

func init() {
	Register("drive", createDriveSource)
}

func createDriveSource(ctx context.Context, args interface{}) (Source, error) {
	cfg := &driveConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("source.credentials_file is required for drive")
	}
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init drive client: %w", err)
	}
	return &driveSource{
		svc:         svc,
		folderNames: make(map[string]string),
	}, nil
}

func (s *driveSource) ListCandidates(ctx context.Context, opts ListOptions) ([]model.Document, error) {
	query := "trashed=false"
	if opts.MimeType != "" {
		query = fmt.Sprintf("mimeType='%s' and trashed=false", opts.MimeType)
	}
	call := s.svc.Files.List().
		Q(query).
		OrderBy("modifiedTime desc").
		PageSize(int64(opts.PageSize)).
		Fields("files(id,name,mimeType,modifiedTime,size,parents)").
		Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list drive files: %w", err)
	}
	docs := make([]model.Document, 0, len(resp.Files))
	for _, f := range resp.Files {
		modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
		docs = append(docs, model.Document{
			FileID:       f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: modified,
			Size:         f.Size,
			FolderPath:   s.folderPath(ctx, f.Parents),
		})
	}
	return docs, nil
}

func (s *driveSource) GetContent(ctx context.Context, file model.Document) (string, error) {
	switch file.MimeType {
	case MimeGoogleDoc, MimeGoogleSheet, MimeGoogleSlides:
		resp, err := s.svc.Files.Export(file.FileID, MimePlainText).Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("export drive file %s: %w", file.FileID, err)
		}
		return readBody(resp.Body)
	case MimePlainText, MimeMarkdown:
		resp, err := s.svc.Files.Get(file.FileID).Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("download drive file %s: %w", file.FileID, err)
		}
		return readBody(resp.Body)
	default:
		return "", appErr.ErrUnsupportedFormat
	}
}

// CreateFolder and CreateShortcut implement PlanExecutor: the organization
// plan lands as a new folder of shortcuts, the originals stay in place.
func (s *driveSource) CreateFolder(ctx context.Context, name string) (string, error) {
	folder, err := s.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: "application/vnd.google-apps.folder",
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create drive folder: %w", err)
	}
	return folder.Id, nil
}

func (s *driveSource) CreateShortcut(ctx context.Context, fileID, fileName, folderID string) error {
	_, err := s.svc.Files.Create(&drive.File{
		Name:     fileName,
		MimeType: "application/vnd.google-apps.shortcut",
		Parents:  []string{folderID},
		ShortcutDetails: &drive.FileShortcutDetails{
			TargetId: fileID,
		},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create drive shortcut: %w", err)
	}
	return nil
}

// folderPath resolves the first parent's name, caching lookups. Drive only
// hands back parent IDs in listings.
func (s *driveSource) folderPath(ctx context.Context, parents []string) string {
	if len(parents) == 0 {
		return ""
	}
	parentID := parents[0]
	s.mu.Lock()
	name, ok := s.folderNames[parentID]
	s.mu.Unlock()
	if ok {
		return name
	}
	parent, err := s.svc.Files.Get(parentID).Fields("name").Context(ctx).Do()
	if err != nil {
		return ""
	}
	s.mu.Lock()
	s.folderNames[parentID] = parent.Name
	s.mu.Unlock()
	return parent.Name
}

func readBody(body io.ReadCloser) (string, error) {
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
