package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docindex/internal/cluster"
	"github.com/xxxsen/docindex/internal/model"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
	"github.com/xxxsen/docindex/internal/source"
)

const (
	MethodClustering = "clustering"
	MethodFolders    = "folders"
	MethodHybrid     = "hybrid"

	// Below this many indexed files any grouping is statistical noise.
	minFilesForAnalysis = 10

	folderConfidence = 0.9
	kmeansConfidence = 0.8
)

// OrganizeService proposes folder structures for a user's indexed files and
// optionally applies a proposal through the source's plan executor.
type OrganizeService struct {
	chunks   ChunkStore
	theme    *cluster.ThemeAnalyzer
	executor source.PlanExecutor
	locks    *UserLocks

	maxClusters    int
	minClusterSize int
	seed           int64
}

// NewOrganizeService builds the service. executor may be nil when the
// configured source cannot create folders; Analyze still works, Execute
// reports invalid. maxClusters and minClusterSize are the configured
// defaults for requests that omit them; a non-zero seed makes clustering
// reproducible.
func NewOrganizeService(chunks ChunkStore, theme *cluster.ThemeAnalyzer, executor source.PlanExecutor, locks *UserLocks, maxClusters, minClusterSize int, seed int64) *OrganizeService {
	if maxClusters <= 0 {
		maxClusters = 8
	}
	if minClusterSize <= 0 {
		minClusterSize = 3
	}
	return &OrganizeService{
		chunks:         chunks,
		theme:          theme,
		executor:       executor,
		locks:          locks,
		maxClusters:    maxClusters,
		minClusterSize: minClusterSize,
		seed:           seed,
	}
}

func (s *OrganizeService) Analyze(ctx context.Context, userID, method string, maxClusters, minClusterSize int) ([]model.Cluster, error) {
	if maxClusters <= 0 {
		maxClusters = s.maxClusters
	}
	if minClusterSize <= 0 {
		minClusterSize = s.minClusterSize
	}
	lock := s.locks.Get(userID)
	lock.RLock()
	defer lock.RUnlock()

	views, err := s.fileViews(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(views) < minFilesForAnalysis {
		return nil, fmt.Errorf("%d files indexed, need at least %d: %w", len(views), minFilesForAnalysis, appErr.ErrInsufficientData)
	}

	switch method {
	case MethodFolders:
		return s.folderClusters(views), nil
	case MethodClustering:
		return s.kmeansClusters(views, maxClusters, minClusterSize), nil
	case MethodHybrid, "":
		clusters := s.folderClusters(views)
		// Semantic clustering fills only the headroom left by real folders.
		k := maxClusters - len(clusters)
		if k > 0 {
			clusters = append(clusters, s.kmeansClustersK(views, k, minClusterSize)...)
		}
		return clusters, nil
	default:
		return nil, fmt.Errorf("unknown analysis method %q: %w", method, appErr.ErrInvalid)
	}
}

// fileViews reduces per-chunk rows to one entry per file, using the first
// chunk's embedding and content as the file's representative.
func (s *OrganizeService) fileViews(ctx context.Context, userID string) ([]model.FileEmbeddingView, error) {
	chunks, err := s.chunks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]model.FileEmbeddingView, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.ChunkIndex != 0 {
			continue
		}
		views = append(views, model.FileEmbeddingView{
			FileID:     chunk.FileID,
			FileName:   chunk.Metadata.FileName,
			Vector:     chunk.Vector,
			Content:    chunk.Content,
			FolderPath: chunk.Metadata.FolderPath,
		})
	}
	return views, nil
}

func (s *OrganizeService) folderClusters(views []model.FileEmbeddingView) []model.Cluster {
	groups := cluster.GroupByFolder(views)
	clusters := make([]model.Cluster, 0, len(groups))
	for _, group := range groups {
		clusters = append(clusters, s.buildCluster(group.Members, folderConfidence, group.Path))
	}
	return clusters
}

func (s *OrganizeService) kmeansClusters(views []model.FileEmbeddingView, maxClusters, minClusterSize int) []model.Cluster {
	k := maxClusters
	if len(views) < k {
		k = len(views)
	}
	return s.kmeansClustersK(views, k, minClusterSize)
}

func (s *OrganizeService) kmeansClustersK(views []model.FileEmbeddingView, k, minClusterSize int) []model.Cluster {
	if k <= 0 || len(views) == 0 {
		return nil
	}
	if k > len(views) {
		k = len(views)
	}
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	vectors := make([][]float32, len(views))
	for i, view := range views {
		vectors[i] = view.Vector
	}
	assign := cluster.KMeans(vectors, k, rng)

	grouped := make([][]model.FileEmbeddingView, k)
	for i, centroid := range assign {
		grouped[centroid] = append(grouped[centroid], views[i])
	}
	clusters := make([]model.Cluster, 0, k)
	for _, members := range grouped {
		if len(members) < minClusterSize {
			continue
		}
		clusters = append(clusters, s.buildCluster(members, kmeansConfidence, ""))
	}
	return clusters
}

func (s *OrganizeService) buildCluster(members []model.FileEmbeddingView, confidence float64, folderPath string) model.Cluster {
	theme := s.theme.Analyze(members)
	folderName := theme.FolderName
	if suggestion := cluster.FolderSuggestion(folderPath); suggestion != "" {
		folderName = suggestion
	}
	clusterMembers := make([]model.ClusterMember, 0, len(members))
	for _, member := range members {
		clusterMembers = append(clusterMembers, model.ClusterMember{
			FileID:     member.FileID,
			FileName:   member.FileName,
			Confidence: confidence,
			Keywords:   theme.Keywords,
		})
	}
	return model.Cluster{
		ID:                  uuid.NewString(),
		Name:                theme.Name,
		Description:         theme.Description,
		SuggestedFolderName: folderName,
		Category:            theme.Category,
		Members:             clusterMembers,
	}
}

// Execute applies one approved cluster: create the suggested folder and link
// every member into it. Files are linked, never moved, so a failed link
// leaves the original untouched.
func (s *OrganizeService) Execute(ctx context.Context, userID string, plan model.Cluster) (*model.ExecutionRecord, error) {
	if s.executor == nil {
		return nil, fmt.Errorf("source does not support organization: %w", appErr.ErrInvalid)
	}
	if plan.SuggestedFolderName == "" || len(plan.Members) == 0 {
		return nil, fmt.Errorf("cluster needs a folder name and members: %w", appErr.ErrInvalid)
	}
	logger := logutil.GetLogger(ctx).With(
		zap.String("user_id", userID),
		zap.String("cluster", plan.Name),
		zap.String("folder", plan.SuggestedFolderName),
	)

	folderID, err := s.executor.CreateFolder(ctx, plan.SuggestedFolderName)
	if err != nil {
		return nil, fmt.Errorf("create folder %q: %w", plan.SuggestedFolderName, err)
	}
	var linked, failed int
	var confidenceSum float64
	for _, member := range plan.Members {
		confidenceSum += member.Confidence
		if err := s.executor.CreateShortcut(ctx, member.FileID, member.FileName, folderID); err != nil {
			failed++
			logger.Warn("link file failed", zap.String("file_id", member.FileID), zap.Error(err))
			continue
		}
		linked++
	}
	record := &model.ExecutionRecord{
		ClusterName:   plan.Name,
		FolderName:    plan.SuggestedFolderName,
		FolderID:      folderID,
		FilesLinked:   linked,
		Failed:        failed,
		AvgConfidence: confidenceSum / float64(len(plan.Members)),
		ExecutedAt:    time.Now().UnixMilli(),
	}
	logger.Info("organization plan applied", zap.Int("linked", linked), zap.Int("failed", failed))
	return record, nil
}
