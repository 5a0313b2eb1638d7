package model

import "time"

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputWide  OutputFormat = "wide"
)

type Document struct {
	Name           string    `json:"name"`
	HTML           string    `json:"html,omitempty"`
	Source         string    `json:"source,omitempty"`
	InputBytes     int       `json:"input_bytes"`
	SanitizedBytes int       `json:"sanitized_bytes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PutResult struct {
	Name        string `json:"name"`
	Inserted    bool   `json:"inserted"`
	InputBytes  int    `json:"input_bytes"`
	OutputBytes int    `json:"output_bytes"`
	Delta       int    `json:"delta"`
}

type Stats struct {
	Documents      int   `json:"documents"`
	InputBytes     int64 `json:"input_bytes"`
	SanitizedBytes int64 `json:"sanitized_bytes"`
}

type ImportResult struct {
	FeedURL   string   `json:"feed_url"`
	FeedTitle string   `json:"feed_title,omitempty"`
	Stored    int      `json:"stored"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type ImportReport struct {
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Results   []ImportResult `json:"results"`
}

type ListOptions struct {
	Prefix string
	Limit  int
}

type PutDocumentInput struct {
	Name           string
	HTML           string
	Source         string
	InputBytes     int
	SanitizedBytes int
}
