// Package tui implements the interactive chat terminal using bubbletea.
// It renders a conversation with the safety agent plus a status line showing
// the active patient and the session state.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
)

// RecordWatcher reports out-of-band changes to patient records. The file
// patient store implements it; other stores may not.
type RecordWatcher interface {
	Watch(ctx context.Context, fn func(id string)) error
}

// App is the interactive chat application.
type App struct {
	chat     driving.ChatService
	patients driving.PatientService
	watcher  RecordWatcher
}

// NewApp creates the chat application over the given services.
func NewApp(chat driving.ChatService, patients driving.PatientService) *App {
	return &App{chat: chat, patients: patients}
}

// SetRecordWatcher enables change notices when patient record files are
// edited outside the application.
func (a *App) SetRecordWatcher(w RecordWatcher) {
	a.watcher = w
}

// Run starts the terminal UI and blocks until the user quits.
func (a *App) Run(ctx context.Context) error {
	model := newModel(ctx, a.chat, a.patients)

	if a.watcher != nil {
		changes := make(chan string, 8)
		err := a.watcher.Watch(ctx, func(id string) {
			select {
			case changes <- id:
			default:
			}
		})
		if err == nil {
			model.recordChanges = changes
		}
	}

	program := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
