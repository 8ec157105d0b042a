package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/docindex/internal/model"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
	"github.com/xxxsen/docindex/internal/source"
)

const testUser = "user-1"

// longContent is comfortably over the minimum chunk length.
const longContent = "This document describes the quarterly planning cycle in enough detail to be worth indexing and retrieving later on."

func newIndexFixture(src *fakeSource) (*IndexService, *memChunkStore, *fakeEmbedder) {
	chunks := newMemChunkStore()
	docs := newMemDocStore()
	embedder := newFakeEmbedder()
	svc := NewIndexService(NewSyncPlanner(src), src, embedder, chunks, docs, NewUserLocks(), 1000, 2)
	return svc, chunks, embedder
}

func TestSyncCountsOutcomes(t *testing.T) {
	src := newFakeSource()
	src.files = []model.Document{
		{FileID: "good", Name: "good.txt", MimeType: source.MimePlainText},
		{FileID: "bad-format", Name: "bad.gdoc", MimeType: source.MimeGoogleDoc},
		{FileID: "broken", Name: "broken.txt", MimeType: source.MimePlainText},
	}
	src.contents["good"] = longContent
	src.errs["bad-format"] = appErr.ErrUnsupportedFormat

	svc, chunks, embedder := newIndexFixture(src)
	src.contents["broken"] = longContent + " This broken marker sentence still clears the length bar."
	embedder.embedFn = func(text, taskType string) ([]float32, error) {
		if strings.Contains(text, "broken marker") {
			return nil, errors.New("provider exploded")
		}
		return []float32{1, 0, 0}, nil
	}

	report, err := svc.Sync(context.Background(), testUser, model.StrategyNewFilesOnly, 10)
	require.NoError(t, err)
	require.Equal(t, 3, report.Total)
	require.Equal(t, 1, report.Processed)
	require.Equal(t, 1, report.Skipped)
	require.Equal(t, 1, report.Failed)
	require.False(t, report.UpToDate)

	count, err := chunks.CountFiles(context.Background(), testUser)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSyncUpToDate(t *testing.T) {
	src := newFakeSource()
	src.files = []model.Document{{FileID: "f0", Name: "f0.txt", MimeType: source.MimePlainText}}
	src.contents["f0"] = longContent
	svc, _, _ := newIndexFixture(src)

	first, err := svc.Sync(context.Background(), testUser, model.StrategyNewFilesOnly, 10)
	require.NoError(t, err)
	require.Equal(t, 1, first.Processed)

	second, err := svc.Sync(context.Background(), testUser, model.StrategyNewFilesOnly, 10)
	require.NoError(t, err)
	require.True(t, second.UpToDate)
	require.Zero(t, second.Processed)
}

func TestSyncChunkOrderAndMetadata(t *testing.T) {
	var sentences []string
	for i := 0; i < 20; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence number %02d carries enough characters to stay above the floor.", i))
	}
	src := newFakeSource()
	src.files = []model.Document{{
		FileID: "big", Name: "big.txt", MimeType: source.MimePlainText, FolderPath: "Plans",
	}}
	src.contents["big"] = strings.Join(sentences, " ")

	chunkStore := newMemChunkStore()
	svc := NewIndexService(NewSyncPlanner(src), src, newFakeEmbedder(), chunkStore, newMemDocStore(), NewUserLocks(), 200, 2)
	_, err := svc.Sync(context.Background(), testUser, model.StrategyNewFilesOnly, 10)
	require.NoError(t, err)

	stored, err := chunkStore.ListByUser(context.Background(), testUser)
	require.NoError(t, err)
	require.Greater(t, len(stored), 1)
	for i, chunk := range stored {
		require.Equal(t, i, chunk.ChunkIndex)
		require.Equal(t, "big", chunk.FileID)
		require.Equal(t, testUser, chunk.UserID)
		require.Equal(t, "big.txt", chunk.Metadata.FileName)
		require.Equal(t, "Plans", chunk.Metadata.FolderPath)
		require.Equal(t, len(stored), chunk.Metadata.ChunkCount)
		require.NotZero(t, chunk.Metadata.ProcessedAt)
	}
}

func TestSyncForceReindexReplacesChunks(t *testing.T) {
	src := newFakeSource()
	src.files = []model.Document{{FileID: "f0", Name: "f0.txt", MimeType: source.MimePlainText}}
	src.contents["f0"] = longContent
	svc, chunkStore, _ := newIndexFixture(src)

	_, err := svc.Sync(context.Background(), testUser, model.StrategyForceReindex, 10)
	require.NoError(t, err)
	_, err = svc.Sync(context.Background(), testUser, model.StrategyForceReindex, 10)
	require.NoError(t, err)

	stored, err := chunkStore.ListByUser(context.Background(), testUser)
	require.NoError(t, err)
	// Reindexing swaps chunks, it never stacks duplicates.
	require.Len(t, stored, 1)
}

func TestSyncRejectsUnknownStrategy(t *testing.T) {
	svc, _, _ := newIndexFixture(newFakeSource())
	_, err := svc.Sync(context.Background(), testUser, model.SyncStrategy("yolo"), 10)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestSyncProviderUnavailable(t *testing.T) {
	src := newFakeSource()
	svc, _, embedder := newIndexFixture(src)
	embedder.available = false
	_, err := svc.Sync(context.Background(), testUser, model.StrategyNewFilesOnly, 10)
	require.ErrorIs(t, err, appErr.ErrProviderUnavailable)
}

func TestStatusReflectsLastSync(t *testing.T) {
	src := newFakeSource()
	src.files = []model.Document{{FileID: "f0", Name: "f0.txt", MimeType: source.MimePlainText}}
	src.contents["f0"] = longContent
	svc, _, _ := newIndexFixture(src)

	status, err := svc.Status(context.Background(), testUser)
	require.NoError(t, err)
	require.Zero(t, status.IndexedFiles)
	require.Nil(t, status.LastSync)
	require.Empty(t, status.RecentDocuments)

	_, err = svc.Sync(context.Background(), testUser, model.StrategyNewFilesOnly, 10)
	require.NoError(t, err)

	status, err = svc.Status(context.Background(), testUser)
	require.NoError(t, err)
	require.Equal(t, 1, status.IndexedFiles)
	require.NotNil(t, status.LastSync)
	require.Equal(t, 1, status.LastSync.Processed)
	require.Len(t, status.RecentDocuments, 1)
	require.Equal(t, "f0", status.RecentDocuments[0].FileID)
}
