package source

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/xxxsen/docindex/internal/model"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
)

type s3SourceConfig struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	SecretID  string `json:"secret_id"`
	SecretKey string `json:"secret_key"`
	Prefix    string `json:"prefix"`
}

// s3Source treats a bucket of text objects as the document corpus. Object
// keys double as file IDs; the MIME type comes from the key extension.
type s3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

func init() {
	Register("s3", createS3Source)
}

func createS3Source(ctx context.Context, args interface{}) (Source, error) {
	cfg := &s3SourceConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Bucket == "" || cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("source.s3 bucket/secret_id/secret_key are required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.SecretID, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("init s3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Source{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *s3Source) ListCandidates(ctx context.Context, opts ListOptions) ([]model.Document, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}
	var docs []model.Document
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			mime := mimeFromKey(key)
			if opts.MimeType != "" && mime != opts.MimeType {
				continue
			}
			doc := model.Document{
				FileID:   key,
				Name:     path.Base(key),
				MimeType: mime,
				Size:     aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				doc.ModifiedTime = *obj.LastModified
			}
			if dir := path.Dir(key); dir != "." && dir != s.prefix {
				doc.FolderPath = strings.TrimPrefix(dir, s.prefix+"/")
			}
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ModifiedTime.After(docs[j].ModifiedTime)
	})
	if opts.PageSize > 0 && len(docs) > opts.PageSize {
		docs = docs[:opts.PageSize]
	}
	return docs, nil
}

func (s *s3Source) GetContent(ctx context.Context, file model.Document) (string, error) {
	switch file.MimeType {
	case MimePlainText, MimeMarkdown:
	default:
		return "", appErr.ErrUnsupportedFormat
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(file.FileID),
	})
	if err != nil {
		return "", fmt.Errorf("get s3 object %s: %w", file.FileID, err)
	}
	return readBody(resp.Body)
}

func mimeFromKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".txt", ".text", ".log":
		return MimePlainText
	case ".md", ".markdown":
		return MimeMarkdown
	default:
		return "application/octet-stream"
	}
}
