package display

import (
	"time"

	"randomframe/pkg/models"
)

// Event types pushed to display clients.
const (
	EventWelcome   = "welcome"
	EventSelection = "selection"
	EventContent   = "content"
	EventFolder    = "folder"
	EventError     = "error"
)

// Event is one line of JSON sent to every connected display.
type Event struct {
	Type      string                  `json:"type"`
	Selection *models.Selection       `json:"selection,omitempty"`
	Content   *models.ContentResponse `json:"content,omitempty"`
	Folder    string                  `json:"folder,omitempty"`
	Eligible  []string                `json:"eligible,omitempty"`
	Error     string                  `json:"error,omitempty"`
	Clients   int                     `json:"clients,omitempty"`
	At        time.Time               `json:"at"`
}
