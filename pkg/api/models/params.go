package models

// SaveSettingsParams is the full settings record. Every field is required
// so a save never leaves a partial record behind.
type SaveSettingsParams struct {
	TargetDeviceName *string `json:"targetDeviceName"`
	GifFileId        *string `json:"gifFileId"`
	GifFileUrl       *string `json:"gifFileUrl"`
	GifFileType      *string `json:"gifFileType"`
}

type DisplayModeParams struct {
	Mode string `json:"mode"`
}

type HistoryParams struct {
	MaxResults *int `json:"maxResults"`
}
