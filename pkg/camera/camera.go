// Package camera watches for the system camera being switched on and off.
package camera

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	sessionStarted = "AVCaptureSessionDidStartRunningNotification"
	sessionStopped = "AVCaptureSessionDidStopRunningNotification"
)

// see: https://stackoverflow.com/a/78665370
const logPredicate = `(eventMessage CONTAINS "` + sessionStarted +
	`" || eventMessage CONTAINS "` + sessionStopped + `")`

type Monitor interface {
	// Start begins monitoring in the background and returns once the
	// monitor is running. Monitoring ends when ctx is cancelled.
	Start(ctx context.Context, onCameraOn func(), onCameraOff func()) error
}

// LogStream follows the macOS unified log for capture session events.
type LogStream struct {
	// Command overrides the log binary, mostly for tests.
	Command string
}

func (m *LogStream) command() (string, []string) {
	if m.Command != "" {
		return m.Command, nil
	}
	return "log", []string{"stream", "--predicate", logPredicate}
}

func (m *LogStream) Start(ctx context.Context, onCameraOn func(), onCameraOff func()) error {
	name, args := m.command()
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	err = cmd.Start()
	if err != nil {
		return err
	}

	log.Info().Msg("camera monitoring started")

	go func() {
		err := Scan(stdout, onCameraOn, onCameraOff)
		if err != nil {
			log.Error().Err(err).Msg("error reading log stream")
		}

		err = cmd.Wait()
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("log stream exited")
		}

		log.Info().Msg("camera monitoring stopped")
	}()

	return nil
}

// Scan reads log stream output until EOF, calling the matching callback for
// every session start or stop line. The first line is the echoed filter and
// is skipped.
func Scan(r io.Reader, onCameraOn func(), onCameraOff func()) error {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return scanner.Err()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, sessionStarted) {
			log.Info().Msg("camera is on")
			onCameraOn()
		} else if strings.Contains(line, sessionStopped) {
			log.Info().Msg("camera is off")
			onCameraOff()
		}
	}

	return scanner.Err()
}
