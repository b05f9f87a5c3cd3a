package models

import (
	"time"
)

type SettingsResponse struct {
	TargetDeviceName string `json:"targetDeviceName"`
	GifFileId        string `json:"gifFileId"`
	GifFileUrl       string `json:"gifFileUrl"`
	GifFileType      string `json:"gifFileType"`
}

type AutoStartResponse struct {
	Enabled   bool `json:"enabled"`
	Supported bool `json:"supported"`
}

type DisplayResponse struct {
	Mode    string    `json:"mode"`
	Changed time.Time `json:"changed"`
}

type HistoryResponseEntry struct {
	Time    time.Time `json:"time"`
	Mode    string    `json:"mode"`
	Device  string    `json:"device"`
	Gif     string    `json:"gif"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

type HistoryResponse struct {
	Entries []HistoryResponseEntry `json:"entries"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}
