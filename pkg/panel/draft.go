package panel

import "github.com/pixoonair/pixoonair/pkg/settings"

// Draft is the unsaved copy of the settings the panel edits. The autostart
// flag is mirrored from the OS, it is not part of the stored record.
type Draft struct {
	settings.Settings
	AutoStartEnabled bool
}

func NewDraft() Draft {
	return Draft{Settings: settings.Defaults()}
}

func (d Draft) WithTargetDeviceName(name string) Draft {
	d.TargetDeviceName = name
	return d
}

// WithGifFileType switches the active GIF field. The inactive field keeps
// its text.
func (d Draft) WithGifFileType(t settings.GifFileType) Draft {
	d.GifFileType = t
	return d
}

func (d Draft) WithGifFileId(id string) Draft {
	d.GifFileId = id
	return d
}

func (d Draft) WithGifFileUrl(url string) Draft {
	d.GifFileUrl = url
	return d
}

// WithActiveGif sets whichever of the id or URL the current type selects.
func (d Draft) WithActiveGif(v string) Draft {
	if d.GifFileType == settings.GifFileTypeUrl {
		return d.WithGifFileUrl(v)
	}
	return d.WithGifFileId(v)
}

func (d Draft) WithAutoStartEnabled(enabled bool) Draft {
	d.AutoStartEnabled = enabled
	return d
}
