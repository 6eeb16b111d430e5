package models

// FileEntry is one row of a repository contents listing.
type FileEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	Type        string `json:"type"`
	Size        int64  `json:"size,omitempty"`
	DownloadURL string `json:"download_url"`
}

func (f FileEntry) IsFile() bool { return f.Type == "file" }

// RateLimit mirrors the core resource block of the /rate_limit endpoint.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}
