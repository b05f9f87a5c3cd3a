package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixoonair/pixoonair/pkg/settings"
)

type Field int

const (
	FieldDevice Field = iota
	FieldGifType
	FieldGif
	FieldAutoStart
	FieldButtons
)

const fieldCount = int(FieldButtons) + 1

type Key int

const (
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyTab
	KeyEnter
	KeyEsc
	KeyBackspace
)

type Input struct {
	Key  Key
	Rune rune
}

type Action int

const (
	ActionNone Action = iota
	ActionSubmitted
	ActionQuit
)

var Buttons = []string{"Save", "Quit"}

// Form maps keyboard input onto a Controller. It holds focus and the last
// commit, the draft itself stays in the Controller.
type Form struct {
	ctrl   *Controller
	Focus  Field
	Button int
	Commit *Commit
	// outcome of the last submit
	message string
}

func NewForm(ctrl *Controller) *Form {
	return &Form{ctrl: ctrl}
}

func (f *Form) move(delta int) {
	f.Focus = Field((int(f.Focus) + delta + fieldCount) % fieldCount)
}

func toggleType(t settings.GifFileType) settings.GifFileType {
	if t == settings.GifFileTypeUrl {
		return settings.GifFileTypeId
	}
	return settings.GifFileTypeUrl
}

func (f *Form) editText(in Input) {
	d := f.ctrl.Draft()

	var value string
	switch f.Focus {
	case FieldDevice:
		value = d.TargetDeviceName
	case FieldGif:
		value = d.ActiveGif()
	default:
		return
	}

	switch in.Key {
	case KeyBackspace:
		r := []rune(value)
		if len(r) == 0 {
			return
		}
		value = string(r[:len(r)-1])
	case KeyRune:
		value += string(in.Rune)
	default:
		return
	}

	if f.Focus == FieldDevice {
		f.ctrl.SetTargetDeviceName(value)
	} else {
		f.ctrl.SetDraft(d.WithActiveGif(value))
	}
}

func (f *Form) submit(ctx context.Context) Action {
	// one commit at a time, the status line shows it is still saving
	if f.Commit != nil {
		return ActionNone
	}

	commit, err := f.ctrl.Submit(ctx)
	if err != nil {
		f.message = "Still loading, try again in a moment"
		return ActionNone
	}

	f.Commit = commit
	f.message = ""
	return ActionSubmitted
}

// HandleInput applies one key press.
func (f *Form) HandleInput(ctx context.Context, in Input) Action {
	switch in.Key {
	case KeyEsc:
		return ActionQuit
	case KeyUp:
		f.move(-1)
		return ActionNone
	case KeyDown, KeyTab:
		f.move(1)
		return ActionNone
	}

	switch f.Focus {
	case FieldDevice, FieldGif:
		if in.Key == KeyEnter {
			f.move(1)
		} else {
			f.editText(in)
		}
	case FieldGifType:
		if in.Key == KeyLeft || in.Key == KeyRight || in.Key == KeyEnter ||
			(in.Key == KeyRune && in.Rune == ' ') {
			f.ctrl.SetGifFileType(toggleType(f.ctrl.Draft().GifFileType))
		}
	case FieldAutoStart:
		if in.Key == KeyEnter || (in.Key == KeyRune && in.Rune == ' ') {
			f.ctrl.SetAutoStartEnabled(!f.ctrl.Draft().AutoStartEnabled)
		}
	case FieldButtons:
		switch in.Key {
		case KeyLeft, KeyRight:
			f.Button = (f.Button + 1) % len(Buttons)
		case KeyEnter:
			if f.Button == 0 {
				return f.submit(ctx)
			}
			return ActionQuit
		}
	}

	return ActionNone
}

// Refresh records the outcome of a finished commit.
func (f *Form) Refresh() {
	if f.Commit == nil {
		return
	}

	select {
	case <-f.Commit.Done():
		if err := f.Commit.Err(); err != nil {
			f.message = "Save failed: " + err.Error()
		} else {
			f.message = "Settings saved"
		}
		f.Commit = nil
	default:
	}
}

func (f *Form) StatusLine() string {
	switch {
	case f.Commit != nil:
		return "Saving..."
	case f.message != "":
		return f.message
	case f.ctrl.Phase() != PhaseReady:
		return "Loading..."
	case f.ctrl.LoadErr() != nil:
		return "Service unavailable, showing defaults"
	default:
		return ""
	}
}

func checkbox(v bool) string {
	if v {
		return "[x]"
	}
	return "[ ]"
}

func radio(t settings.GifFileType) string {
	if t == settings.GifFileTypeUrl {
		return "( ) ID  (*) URL"
	}
	return "(*) ID  ( ) URL"
}

// Lines renders the fields as label and value pairs, one per field before
// the buttons.
func (f *Form) Lines() []string {
	d := f.ctrl.Draft()

	gifLabel := "GIF file ID"
	if d.GifFileType == settings.GifFileTypeUrl {
		gifLabel = "GIF file URL"
	}

	rows := [][2]string{
		{"Target device", d.TargetDeviceName},
		{"GIF type", radio(d.GifFileType)},
		{gifLabel, d.ActiveGif()},
		{"Launch at login", checkbox(d.AutoStartEnabled)},
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		marker := " "
		if Field(i) == f.Focus {
			marker = ">"
		}
		lines[i] = fmt.Sprintf("%s %-16s %s", marker, r[0]+":", r[1])
	}

	return lines
}

// Truncate shortens s to width runes keeping the end, where typing happens.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	} else if len(r) <= width {
		return s + strings.Repeat(" ", width-len(r))
	}
	return string(r[len(r)-width:])
}
