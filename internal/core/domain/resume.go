package domain

import "time"

type ResumeStatus string

const (
	ResumeStatusUploaded ResumeStatus = "uploaded"
	ResumeStatusParsed   ResumeStatus = "parsed"
	ResumeStatusAssessed ResumeStatus = "assessed"
	ResumeStatusError    ResumeStatus = "error"
)

type Resume struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"owner_id"`
	Filename      string       `json:"filename"`
	StoragePath   string       `json:"-"`
	FileSize      int64        `json:"file_size"`
	MimeType      string       `json:"mime_type"`
	ExtractedText string       `json:"-"`
	Status        ResumeStatus `json:"status"`
	Error         string       `json:"error,omitempty"`
	UploadedAt    time.Time    `json:"uploaded_at"`
	ParsedAt      *time.Time   `json:"parsed_at,omitempty"`
}
