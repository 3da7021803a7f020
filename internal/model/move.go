package model

import "time"

// MoveRequest asks the executor to move one file into a category
// subfolder of the base path.
type MoveRequest struct {
	SourcePath string `json:"path"`
	Category   string `json:"category"`
	BasePath   string `json:"base_path"`
}

// MoveResult reports the outcome of one MoveRequest. Destination is set
// only on success; Error only on failure.
type MoveResult struct {
	SourcePath  string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Error       string `json:"error,omitempty"`
	Moved       bool   `json:"moved"`
}

// OperationStatus records how a persisted file operation ended.
type OperationStatus string

const (
	// OperationStatusSuccess marks a completed operation.
	OperationStatusSuccess OperationStatus = "success"
	// OperationStatusFailed marks a failed operation.
	OperationStatusFailed OperationStatus = "failed"
)

// Operation is one row of operation history handed to the persistence
// collaborator after a move batch executes.
type Operation struct {
	ExecutedAt      time.Time       `json:"executed_at"`
	Type            string          `json:"operation_type"`
	SourcePath      string          `json:"source_path"`
	DestinationPath string          `json:"destination_path,omitempty"`
	Status          OperationStatus `json:"status"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	ID              int64           `json:"id"`
}
