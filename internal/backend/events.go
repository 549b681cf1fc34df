// ABOUTME: Backend event payloads for download and install progress/completion
// ABOUTME: Codecs are generated by easyjson since these decode on every progress tick

//go:generate easyjson -all events.go

package backend

// DownloadProgress is the download_progress payload.
type DownloadProgress struct {
	AppID      string  `json:"app_id"`
	Progress   float64 `json:"progress"`
	Downloaded int64   `json:"downloaded"`
	Total      int64   `json:"total"`
	Status     string  `json:"status"`
}

// DownloadComplete is the download_complete payload.
type DownloadComplete struct {
	AppID    string `json:"app_id"`
	FilePath string `json:"file_path"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// InstallProgress is the install_progress payload.
type InstallProgress struct {
	AppID    string  `json:"app_id"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}

// InstallComplete is the install_complete payload.
type InstallComplete struct {
	AppID   string `json:"app_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
