package internal

// FileRecord is the normalized metadata for a single shared file, built from
// the upstream listing response. DownloadURL is best-effort and may be a
// constructed guess rather than a verified direct link.
type FileRecord struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	FsID        int64  `json:"fs_id"`
	DownloadURL string `json:"download_url,omitempty"`
	Thumbnail   string `json:"thumbnail"`
	Category    int    `json:"category"`
	IsDir       int    `json:"isdir"`
}

// APIResult is the uniform response envelope returned by every data-bearing
// endpoint. Failures of any kind collapse into Success=false plus a
// human-readable Message; Data is present only on success.
type APIResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    *FileRecord `json:"data,omitempty"`
}
