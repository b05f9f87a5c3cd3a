package panel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/pixoonair/pixoonair/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	stored  settings.Settings
	loadErr error
	saveErr error
	saves   []settings.Settings
	// release blocks Load until closed when set
	release chan struct{}
	// saveRelease blocks Save until closed when set
	saveRelease chan struct{}
}

func (f *fakeStore) Load(ctx context.Context) (settings.Settings, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return settings.Settings{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return settings.Defaults(), f.loadErr
	}
	return f.stored, nil
}

func (f *fakeStore) Save(_ context.Context, s settings.Settings) error {
	if f.saveRelease != nil {
		<-f.saveRelease
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, s)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored = s
	return nil
}

type fakeAutoStart struct {
	mu       sync.Mutex
	enabled  bool
	queryErr error
	setErr   error
	calls    []string
	// setDelay slows every Enable and Disable
	setDelay time.Duration
}

func (f *fakeAutoStart) IsEnabled() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "query")
	return f.enabled, f.queryErr
}

func (f *fakeAutoStart) Enable() error {
	time.Sleep(f.setDelay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "enable")
	if f.setErr != nil {
		return f.setErr
	}
	f.enabled = true
	return nil
}

func (f *fakeAutoStart) Disable() error {
	time.Sleep(f.setDelay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "disable")
	if f.setErr != nil {
		return f.setErr
	}
	f.enabled = false
	return nil
}

func (f *fakeAutoStart) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// settle waits for every startup completion, including the reassertion
// when the query succeeds.
func settle(t *testing.T, c *Controller, expected int) {
	t.Helper()
	for i := 0; i < expected; i++ {
		select {
		case comp := <-c.Completions():
			c.Apply(comp)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for completion %d", i+1)
		}
	}
}

func TestDraftDefaults(t *testing.T) {
	c := NewController(&fakeStore{}, &fakeAutoStart{})
	assert.Equal(t, PhaseUninitialized, c.Phase())
	assert.Equal(t, settings.GifFileTypeId, c.Draft().GifFileType)
	assert.False(t, c.Draft().AutoStartEnabled)
}

func TestFreshInstall(t *testing.T) {
	store := &fakeStore{stored: settings.Defaults()}
	as := &fakeAutoStart{}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))
	assert.Equal(t, PhaseLoading, c.Phase())
	settle(t, c, 3)

	assert.Equal(t, PhaseReady, c.Phase())
	d := c.Draft()
	assert.Equal(t, settings.GifFileTypeId, d.GifFileType)
	assert.Empty(t, d.GifFileId)
	assert.Empty(t, d.GifFileUrl)
	assert.Empty(t, d.TargetDeviceName)
	assert.False(t, d.AutoStartEnabled)
	assert.Equal(t, []string{"query", "disable"}, as.Calls())
	assert.NoError(t, c.ReassertErr())
}

func TestReassertsQueriedState(t *testing.T) {
	// the stored record has no say in the autostart state
	store := &fakeStore{stored: settings.Settings{TargetDeviceName: "Pixoo", GifFileType: settings.GifFileTypeId}}
	as := &fakeAutoStart{enabled: true}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))
	settle(t, c, 3)

	assert.True(t, c.Draft().AutoStartEnabled)
	assert.Equal(t, []string{"query", "enable"}, as.Calls())
}

func TestQueryFailureShowsDisabled(t *testing.T) {
	store := &fakeStore{stored: settings.Defaults()}
	as := &fakeAutoStart{enabled: true, queryErr: autostart.ErrPlatformUnavailable}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))
	require.NoError(t, c.WaitReady(testCtx(t)))

	assert.False(t, c.Draft().AutoStartEnabled)
	assert.True(t, errors.Is(c.QueryErr(), autostart.ErrPlatformUnavailable))

	// no reassertion write follows a failed query
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, c.Poll())
	assert.Equal(t, []string{"query"}, as.Calls())
}

func TestLoadFailureKeepsForm(t *testing.T) {
	store := &fakeStore{loadErr: settings.ErrBackendUnavailable}
	as := &fakeAutoStart{}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))
	settle(t, c, 3)

	assert.Equal(t, PhaseReady, c.Phase())
	assert.True(t, errors.Is(c.LoadErr(), settings.ErrBackendUnavailable))
	assert.Equal(t, NewDraft(), c.Draft())

	c.SetTargetDeviceName("Pixoo")
	assert.Equal(t, "Pixoo", c.Draft().TargetDeviceName)
}

func TestCompletionsInEitherOrder(t *testing.T) {
	stored := settings.Settings{
		TargetDeviceName: "Office",
		GifFileUrl:       "https://example.com/a.gif",
		GifFileType:      settings.GifFileTypeUrl,
	}
	store := &fakeStore{stored: stored, release: make(chan struct{})}
	as := &fakeAutoStart{enabled: true}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))

	// query and reassertion land while the load is still blocked
	settle(t, c, 2)
	assert.Equal(t, PhaseLoading, c.Phase())
	assert.True(t, c.Draft().AutoStartEnabled)
	assert.Equal(t, settings.Defaults(), c.Draft().Settings)

	close(store.release)
	settle(t, c, 1)
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, stored, c.Draft().Settings)
	assert.True(t, c.Draft().AutoStartEnabled)
}

func TestMountTwice(t *testing.T) {
	c := NewController(&fakeStore{}, &fakeAutoStart{})
	require.NoError(t, c.Mount(testCtx(t)))
	assert.True(t, errors.Is(c.Mount(testCtx(t)), ErrAlreadyMounted))
}

func TestUnmountDropsLateCompletions(t *testing.T) {
	store := &fakeStore{stored: settings.Settings{TargetDeviceName: "late"}, release: make(chan struct{})}
	c := NewController(store, &fakeAutoStart{})

	require.NoError(t, c.Mount(testCtx(t)))
	c.Unmount()
	close(store.release)

	c.Apply(Completion{Kind: SettingsLoaded, Settings: settings.Settings{TargetDeviceName: "late"}})
	assert.Empty(t, c.Draft().TargetDeviceName)
	assert.Equal(t, PhaseLoading, c.Phase())
	assert.True(t, errors.Is(c.Mount(testCtx(t)), ErrAlreadyMounted))
}

func TestFieldRetention(t *testing.T) {
	c := NewController(&fakeStore{stored: settings.Defaults()}, &fakeAutoStart{})
	require.NoError(t, c.Mount(testCtx(t)))
	require.NoError(t, c.WaitReady(testCtx(t)))

	c.SetGifFileId("group1/M00/abc")
	c.SetGifFileType(settings.GifFileTypeUrl)
	c.SetGifFileUrl("https://example.com/a.gif")
	c.SetGifFileType(settings.GifFileTypeId)

	d := c.Draft()
	assert.Equal(t, "group1/M00/abc", d.GifFileId)
	assert.Equal(t, "https://example.com/a.gif", d.GifFileUrl)
	assert.Equal(t, "group1/M00/abc", d.ActiveGif())

	c.SetGifFileType("gif")
	assert.Equal(t, settings.GifFileTypeId, c.Draft().GifFileType)
}

func TestSubmitBeforeReady(t *testing.T) {
	c := NewController(&fakeStore{}, &fakeAutoStart{})
	_, err := c.Submit(testCtx(t))
	assert.True(t, errors.Is(err, ErrNotReady))
}

func TestSubmit(t *testing.T) {
	store := &fakeStore{stored: settings.Defaults()}
	as := &fakeAutoStart{}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))
	settle(t, c, 3)

	c.SetGifFileType(settings.GifFileTypeUrl)
	c.SetGifFileUrl("https://example.com/a.gif")
	c.SetAutoStartEnabled(true)

	commit, err := c.Submit(testCtx(t))
	require.NoError(t, err)
	require.NoError(t, commit.Wait(testCtx(t)))

	require.Len(t, store.saves, 1)
	assert.Equal(t, settings.GifFileTypeUrl, store.saves[0].GifFileType)
	assert.Equal(t, "https://example.com/a.gif", store.saves[0].GifFileUrl)
	assert.Equal(t, []string{"query", "disable", "enable"}, as.Calls())
	assert.Equal(t, PhaseReady, c.Phase())
}

func TestSubmitErrors(t *testing.T) {
	store := &fakeStore{stored: settings.Defaults()}
	as := &fakeAutoStart{}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))
	settle(t, c, 3)

	store.mu.Lock()
	store.saveErr = settings.ErrBackendUnavailable
	store.mu.Unlock()
	as.mu.Lock()
	as.setErr = autostart.ErrPlatformUnavailable
	as.mu.Unlock()

	c.SetTargetDeviceName("Pixoo")
	commit, err := c.Submit(testCtx(t))
	require.NoError(t, err)

	err = commit.Wait(testCtx(t))
	assert.True(t, errors.Is(err, settings.ErrBackendUnavailable))
	assert.True(t, errors.Is(err, autostart.ErrPlatformUnavailable))
	assert.True(t, errors.Is(commit.SaveErr(), settings.ErrBackendUnavailable))
	assert.Equal(t, err, commit.Err())

	// the draft is not rolled back
	assert.Equal(t, "Pixoo", c.Draft().TargetDeviceName)
	assert.Equal(t, PhaseReady, c.Phase())
}

func TestNotReadyUntilReasserted(t *testing.T) {
	store := &fakeStore{stored: settings.Defaults()}
	as := &fakeAutoStart{setDelay: 200 * time.Millisecond}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))

	// load and query arrive well before the slow reassertion
	settle(t, c, 2)
	assert.Equal(t, PhaseLoading, c.Phase())
	_, err := c.Submit(testCtx(t))
	assert.True(t, errors.Is(err, ErrNotReady))

	settle(t, c, 1)
	assert.Equal(t, PhaseReady, c.Phase())
}

func TestSubmitAfterSlowReassertion(t *testing.T) {
	store := &fakeStore{stored: settings.Defaults()}
	as := &fakeAutoStart{setDelay: 200 * time.Millisecond}
	c := NewController(store, as)

	require.NoError(t, c.Mount(testCtx(t)))
	require.NoError(t, c.WaitReady(testCtx(t)))

	c.SetAutoStartEnabled(true)
	commit, err := c.Submit(testCtx(t))
	require.NoError(t, err)
	require.NoError(t, commit.Wait(testCtx(t)))

	assert.Equal(t, []string{"query", "disable", "enable"}, as.Calls())
	enabled, err := as.IsEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)
}
