package model

type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryMedia     Category = "media"
	CategoryDocuments Category = "documents"
	CategoryArchive   Category = "archive"
	CategoryMixed     Category = "mixed"
)

type ClusterMember struct {
	FileID     string   `json:"file_id"`
	FileName   string   `json:"file_name"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

// Cluster is one proposed folder: a themed group of files plus the naming
// derived for it. Clusters are computed fresh on every analysis call and
// never persisted by the core.
type Cluster struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	SuggestedFolderName string          `json:"suggested_folder_name"`
	Category            Category        `json:"category"`
	Members             []ClusterMember `json:"members"`
}

// ExecutionRecord is the activity log entry produced when a user applies a
// cluster as an actual folder.
type ExecutionRecord struct {
	ClusterName   string  `json:"cluster_name"`
	FolderName    string  `json:"folder_name"`
	FolderID      string  `json:"folder_id"`
	FilesLinked   int     `json:"files_linked"`
	Failed        int     `json:"failed"`
	AvgConfidence float64 `json:"avg_confidence"`
	ExecutedAt    int64   `json:"executed_at"`
}
