package model

type SyncStrategy string

const (
	StrategyNewFilesOnly SyncStrategy = "new_files_only"
	StrategyForceReindex SyncStrategy = "force_reindex"
)

// SyncDecision is the planner's output: which files to (re)process this
// pass, plus diagnostic counts. UpToDate marks the non-error "nothing to
// do" outcome of new_files_only.
type SyncDecision struct {
	Strategy       SyncStrategy `json:"strategy"`
	Files          []Document   `json:"files"`
	TotalSeen      int          `json:"total_seen"`
	Processable    int          `json:"processable"`
	AlreadyIndexed int          `json:"already_indexed"`
	UpToDate       bool         `json:"up_to_date"`
}

// SyncReport aggregates one sync pass. A single file failing is counted
// here, never fatal to the pass.
type SyncReport struct {
	Strategy   SyncStrategy `json:"strategy"`
	Total      int          `json:"total"`
	Processed  int          `json:"processed"`
	Skipped    int          `json:"skipped"`
	Failed     int          `json:"failed"`
	UpToDate   bool         `json:"up_to_date"`
	FinishedAt int64        `json:"finished_at"`
}
