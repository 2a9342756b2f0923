package models

import "time"

// Selection is one generated image/caption pair for the widget modes.
// It is built fresh for every generate request and never stored.
type Selection struct {
	Folder   string `json:"folder"`
	Image    string `json:"image"`     // file name inside Folder
	ImageURL string `json:"image_url"` // folder-relative location, e.g. "Lilia/image3.png"
	Caption  string `json:"caption"`
}

// DriveImage is the image part of the random-content payload.
type DriveImage struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DownloadLink string `json:"downloadLink"`
	PreviewLink  string `json:"previewLink"`
	ViewLink     string `json:"viewLink"`
}

// ContentResponse is the body of GET /api/random-content.
type ContentResponse struct {
	Image     DriveImage `json:"image"`
	Caption   string     `json:"caption"`
	Timestamp string     `json:"timestamp"`
}

// ISOTimestamp formats t the way browsers print Date.toISOString().
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
