package model

// EmbeddingChunk is one embedded slice of a document. ChunkIndex values for
// a file are contiguous from 0; a file counts as indexed once at least one
// chunk exists for it.
type EmbeddingChunk struct {
	FileID     string        `json:"file_id"`
	UserID     string        `json:"user_id"`
	ChunkIndex int           `json:"chunk_index"`
	Content    string        `json:"content"`
	Vector     []float32     `json:"vector"`
	Metadata   ChunkMetadata `json:"metadata"`
}

type ChunkMetadata struct {
	FileName       string `json:"file_name"`
	FolderPath     string `json:"folder_path"`
	ChunkCount     int    `json:"chunk_count"`
	OriginalLength int    `json:"original_length"`
	ProcessedAt    int64  `json:"processed_at"`
}

// FileEmbeddingView is the per-file projection clustering works on. The
// representative vector and content come from the file's first chunk.
type FileEmbeddingView struct {
	FileID     string    `json:"file_id"`
	FileName   string    `json:"file_name"`
	Vector     []float32 `json:"vector"`
	Content    string    `json:"content"`
	FolderPath string    `json:"folder_path"`
}
