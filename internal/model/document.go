package model

import "time"

// Document is the metadata of one file observed in the external content
// source. FileID is the source's opaque identifier and stays stable across
// sync passes.
type Document struct {
	FileID       string    `json:"file_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mime_type"`
	ModifiedTime time.Time `json:"modified_time"`
	Size         int64     `json:"size"`
	FolderPath   string    `json:"folder_path"`
}
