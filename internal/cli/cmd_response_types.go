package cli

type SanitizeResponse struct {
	Output      string `json:"output"`
	InputBytes  int    `json:"input_bytes"`
	OutputBytes int    `json:"output_bytes"`
}

type RemoveDocumentResponse struct {
	Removed string `json:"removed"`
}

type MarkdownResponse struct {
	Name     string `json:"name"`
	Markdown string `json:"markdown"`
}
