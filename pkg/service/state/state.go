package state

import (
	"sync"
	"time"

	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/onair"
	"github.com/rs/zerolog/log"
)

const notificationsBuffer = 32

type State struct {
	mu            sync.RWMutex
	stopService   bool
	mode          onair.Mode
	modeChanged   time.Time
	notifications chan models.Notification
}

// NewState returns the state and the receiving end of its notification
// channel, which the API server broadcasts to connected clients.
func NewState() (*State, <-chan models.Notification) {
	ns := make(chan models.Notification, notificationsBuffer)
	return &State{
		mode:          onair.ModeNormal,
		notifications: ns,
	}, ns
}

// Notify queues a notification for broadcast. It is dropped if the queue
// is full.
func (s *State) Notify(n models.Notification) {
	select {
	case s.notifications <- n:
	default:
		log.Warn().Str("method", n.Method).Msg("notification queue full, dropping")
	}
}

func (s *State) SetMode(mode onair.Mode) {
	s.mu.Lock()
	s.mode = mode
	s.modeChanged = time.Now()
	s.mu.Unlock()

	s.Notify(models.Notification{
		Method: models.DisplayChanged,
		Params: mode,
	})
}

func (s *State) GetMode() (onair.Mode, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, s.modeChanged
}

func (s *State) StopService() {
	s.mu.Lock()
	s.stopService = true
	s.mu.Unlock()
}

func (s *State) ShouldStopService() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopService
}
