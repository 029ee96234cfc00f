package model

import "time"

// UploadStatus tracks the lifecycle of an ingested billing file.
type UploadStatus string

// Upload statuses. An upload is terminal once completed or failed.
const (
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

// Upload describes one ingested billing file and its outcome.
type Upload struct {
	ID            string       `json:"id"`
	FileName      string       `json:"file_name"`
	Provider      Provider     `json:"provider"`
	Status        UploadStatus `json:"status"`
	FailureReason string       `json:"failure_reason,omitempty"`
	ItemCount     int          `json:"item_count"`
	CreatedAt     time.Time    `json:"created_at"`
}
