package cluster

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/docindex/internal/model"
)

func TestGroupByFolderDropsSingletons(t *testing.T) {
	views := []model.FileEmbeddingView{
		{FileID: "a", FolderPath: "Taxes"},
		{FileID: "b", FolderPath: "Taxes"},
		{FileID: "c", FolderPath: "Lonely"},
	}
	groups := GroupByFolder(views)
	require.Len(t, groups, 1)
	require.Equal(t, "Taxes", groups[0].Path)
	require.Len(t, groups[0].Members, 2)
}

func TestGroupByFolderRootSentinel(t *testing.T) {
	views := []model.FileEmbeddingView{
		{FileID: "a", FolderPath: ""},
		{FileID: "b", FolderPath: ""},
	}
	groups := GroupByFolder(views)
	require.Len(t, groups, 1)
	require.Equal(t, RootFolder, groups[0].Path)
}

func TestGroupByFolderSortedByPath(t *testing.T) {
	views := []model.FileEmbeddingView{
		{FileID: "a", FolderPath: "Zoo"},
		{FileID: "b", FolderPath: "Zoo"},
		{FileID: "c", FolderPath: "Alpha"},
		{FileID: "d", FolderPath: "Alpha"},
	}
	groups := GroupByFolder(views)
	require.Len(t, groups, 2)
	require.Equal(t, "Alpha", groups[0].Path)
	require.Equal(t, "Zoo", groups[1].Path)
}
