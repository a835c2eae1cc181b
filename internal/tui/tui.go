package tui

import (
	"context"

	"github.com/google/uuid"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rohanverma/upq/internal/engine"
	"github.com/rohanverma/upq/internal/upload"
)

// Run initializes and starts the TUI.
func Run(ctx context.Context, eng *engine.Engine) error {
	m := NewModel(newEngineActions(ctx, eng))
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-eng.GetErrors():
				if !ok {
					return
				}

				p.Send(uploadError{err.Error})
			}
		}
	}()

	_, err := p.Run()

	return err
}

type engineActions struct {
	Add            func(path string, opts *upload.Options) error
	Pause          func(id uuid.UUID)
	Resume         func(id uuid.UUID)
	Cancel         func(id uuid.UUID)
	Retry          func(id uuid.UUID)
	Remove         func(id uuid.UUID) error
	ClearCompleted func()
	GetAll         func() []engine.UploadInfo
	Stats          func() engine.Stats
}

func newEngineActions(ctx context.Context, e *engine.Engine) engineActions {
	return engineActions{
		Add: func(path string, opts *upload.Options) error {
			_, err := e.AddFiles(ctx, []string{path}, opts)
			return err
		},
		Pause:          func(id uuid.UUID) { e.Pause(id) },
		Resume:         func(id uuid.UUID) { e.Resume(id) },
		Cancel:         func(id uuid.UUID) { e.Cancel(id) },
		Retry:          func(id uuid.UUID) { e.Retry(id) },
		Remove:         e.Remove,
		ClearCompleted: e.ClearCompleted,
		GetAll:         e.GetAllUploads,
		Stats:          e.Stats,
	}
}
