package models

// Source records where a payload came from. It is diagnostic only and never
// affects cache validity.
type Source string

const (
	SourceAPI  Source = "api"
	SourceAtom Source = "atom"
)

// Release is the provenance-agnostic shape shared by the REST path and the
// Atom fallback path. Atom-derived releases always have empty Assets; the
// feed format carries no asset metadata.
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name,omitempty"`
	PublishedAt string  `json:"published_at"`
	Prerelease  bool    `json:"prerelease"`
	Assets      []Asset `json:"assets,omitempty"`
	Source      Source  `json:"source"`
}

type Asset struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"browser_download_url"`
}
