package panel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pixoonair/pixoonair/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(ctx context.Context, f *Form, s string) {
	for _, r := range s {
		f.HandleInput(ctx, Input{Key: KeyRune, Rune: r})
	}
}

func readyForm(t *testing.T, store *fakeStore, as *fakeAutoStart) (*Form, *Controller) {
	c := NewController(store, as)
	require.NoError(t, c.Mount(testCtx(t)))
	settle(t, c, 3)
	return NewForm(c), c
}

func TestFormEditing(t *testing.T) {
	ctx := testCtx(t)
	f, c := readyForm(t, &fakeStore{stored: settings.Defaults()}, &fakeAutoStart{})

	typeText(ctx, f, "Pixoo64")
	f.HandleInput(ctx, Input{Key: KeyBackspace})
	assert.Equal(t, "Pixoo6", c.Draft().TargetDeviceName)

	f.HandleInput(ctx, Input{Key: KeyDown})
	assert.Equal(t, FieldGifType, f.Focus)
	f.HandleInput(ctx, Input{Key: KeyRight})
	assert.Equal(t, settings.GifFileTypeUrl, c.Draft().GifFileType)

	f.HandleInput(ctx, Input{Key: KeyTab})
	typeText(ctx, f, "https://x/a.gif")
	assert.Equal(t, "https://x/a.gif", c.Draft().GifFileUrl)
	assert.Empty(t, c.Draft().GifFileId)

	f.HandleInput(ctx, Input{Key: KeyDown})
	f.HandleInput(ctx, Input{Key: KeyRune, Rune: ' '})
	assert.True(t, c.Draft().AutoStartEnabled)

	lines := f.Lines()
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[3], ">"))
	assert.Contains(t, lines[2], "GIF file URL")
	assert.Contains(t, lines[3], "[x]")
}

func TestFormFocusWraps(t *testing.T) {
	f, _ := readyForm(t, &fakeStore{stored: settings.Defaults()}, &fakeAutoStart{})
	f.HandleInput(testCtx(t), Input{Key: KeyUp})
	assert.Equal(t, FieldButtons, f.Focus)
	f.HandleInput(testCtx(t), Input{Key: KeyDown})
	assert.Equal(t, FieldDevice, f.Focus)
}

func TestFormSubmit(t *testing.T) {
	ctx := testCtx(t)
	store := &fakeStore{stored: settings.Defaults()}
	f, _ := readyForm(t, store, &fakeAutoStart{})

	typeText(ctx, f, "Office")
	f.Focus = FieldButtons

	assert.Equal(t, ActionSubmitted, f.HandleInput(ctx, Input{Key: KeyEnter}))
	require.NotNil(t, f.Commit)
	require.NoError(t, f.Commit.Wait(ctx))

	f.Refresh()
	assert.Nil(t, f.Commit)
	assert.Equal(t, "Settings saved", f.StatusLine())
	assert.Equal(t, "Office", store.stored.TargetDeviceName)

	f.HandleInput(ctx, Input{Key: KeyRight})
	assert.Equal(t, ActionQuit, f.HandleInput(ctx, Input{Key: KeyEnter}))
}

func TestFormSubmitFailure(t *testing.T) {
	ctx := testCtx(t)
	store := &fakeStore{stored: settings.Defaults(), saveErr: settings.ErrBackendUnavailable}
	f, _ := readyForm(t, store, &fakeAutoStart{})

	f.Focus = FieldButtons
	f.HandleInput(ctx, Input{Key: KeyEnter})
	require.NoError(t, waitDone(f.Commit))

	f.Refresh()
	assert.Contains(t, f.StatusLine(), "Save failed")
}

func TestFormLoadingStatus(t *testing.T) {
	c := NewController(&fakeStore{release: make(chan struct{})}, &fakeAutoStart{})
	require.NoError(t, c.Mount(testCtx(t)))
	f := NewForm(c)

	assert.Equal(t, "Loading...", f.StatusLine())

	f.Focus = FieldButtons
	assert.Equal(t, ActionNone, f.HandleInput(testCtx(t), Input{Key: KeyEnter}))
	assert.Contains(t, f.StatusLine(), "Still loading")
	c.Unmount()
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc  ", Truncate("abc", 5))
	assert.Equal(t, "cdef", Truncate("abcdef", 4))
	assert.Equal(t, "", Truncate("abc", 0))
}

func waitDone(c *Commit) error {
	select {
	case <-c.Done():
		return nil
	case <-time.After(5 * time.Second):
		return context.DeadlineExceeded
	}
}

func TestFormIgnoresSaveWhileSaving(t *testing.T) {
	ctx := testCtx(t)
	store := &fakeStore{
		stored:      settings.Defaults(),
		saveErr:     settings.ErrBackendUnavailable,
		saveRelease: make(chan struct{}),
	}
	f, _ := readyForm(t, store, &fakeAutoStart{})

	f.Focus = FieldButtons
	assert.Equal(t, ActionSubmitted, f.HandleInput(ctx, Input{Key: KeyEnter}))
	first := f.Commit
	require.NotNil(t, first)

	assert.Equal(t, ActionNone, f.HandleInput(ctx, Input{Key: KeyEnter}))
	assert.Same(t, first, f.Commit)
	assert.Equal(t, "Saving...", f.StatusLine())

	close(store.saveRelease)
	require.NoError(t, waitDone(first))

	// the first commit's failure is still reported
	f.Refresh()
	assert.Contains(t, f.StatusLine(), "Save failed")

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.saves, 1)
}
