package cluster

import (
	"sort"

	"github.com/xxxsen/docindex/internal/model"
)

// RootFolder is the sentinel path for files that live outside any folder.
const RootFolder = "Root"

// FolderGroup is one existing-folder grouping of files.
type FolderGroup struct {
	Path    string
	Members []model.FileEmbeddingView
}

// GroupByFolder buckets files by their current folder path. A single file is
// not an organizational cluster, so groups of size one are dropped. Output
// order is deterministic (sorted by path).
func GroupByFolder(views []model.FileEmbeddingView) []FolderGroup {
	byPath := make(map[string][]model.FileEmbeddingView)
	for _, view := range views {
		path := view.FolderPath
		if path == "" {
			path = RootFolder
		}
		byPath[path] = append(byPath[path], view)
	}
	paths := make([]string, 0, len(byPath))
	for path, members := range byPath {
		if len(members) < 2 {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	groups := make([]FolderGroup, 0, len(paths))
	for _, path := range paths {
		groups = append(groups, FolderGroup{Path: path, Members: byPath[path]})
	}
	return groups
}
