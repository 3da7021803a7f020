package model

// ProgressEventType tags a progress stream record.
type ProgressEventType string

const (
	// ProgressStarted opens a run; carries the total file count.
	ProgressStarted ProgressEventType = "started"
	// ProgressUpdate reports one completed file.
	ProgressUpdate ProgressEventType = "progress"
	// ProgressCompleted closes a successful run with the full result set.
	ProgressCompleted ProgressEventType = "completed"
	// ProgressError closes a failed run. No events follow it.
	ProgressError ProgressEventType = "error"
)

// ProgressEvent is one record in the ordered stream a pipeline run emits
// to its caller. A run emits exactly one "started" event, then zero or
// more "progress" events in walk order, terminated by exactly one
// "completed" or "error" event.
type ProgressEvent struct {
	Type        ProgressEventType `json:"type"`
	CurrentFile string            `json:"current_file,omitempty"`
	Category    string            `json:"category,omitempty"`
	Message     string            `json:"message,omitempty"`
	Files       []Analysis        `json:"files,omitempty"`
	Total       int               `json:"total"`
	Processed   int               `json:"processed,omitempty"`
	Percent     float64           `json:"percent,omitempty"`
}
