package drive

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// File is the subset of Drive file metadata the content endpoint needs.
type File struct {
	ID            string
	Name          string
	MimeType      string
	WebViewLink   string
	ThumbnailLink string
}

// Lister lists the image files directly inside a Drive folder.
type Lister interface {
	ListImages(ctx context.Context, folderID string) ([]File, error)
}

// DownloadLink is the direct-download URL for a Drive file.
func DownloadLink(id string) string {
	return "https://drive.google.com/uc?export=download&id=" + url.QueryEscape(id)
}

// PreviewLink is the 1000px thumbnail URL for a Drive file.
func PreviewLink(id string) string {
	return "https://drive.google.com/thumbnail?id=" + url.QueryEscape(id) + "&sz=w1000"
}

// Client lists folders through the Drive v3 API with read-only scope.
type Client struct {
	svc *gdrive.Service
}

// NewClient authenticates with a service-account credentials file. An empty
// path falls back to Application Default Credentials.
func NewClient(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithScopes(gdrive.DriveReadonlyScope)}, opts...)
	if credentialsFile != "" {
		all = append(all, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := gdrive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("drive: new service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) ListImages(ctx context.Context, folderID string) ([]File, error) {
	var out []File

	call := c.svc.Files.List().
		Q(imageQuery(folderID)).
		Fields("nextPageToken, files(id, name, mimeType, webViewLink, thumbnailLink)").
		PageSize(1000)

	err := call.Pages(ctx, func(page *gdrive.FileList) error {
		for _, f := range page.Files {
			out = append(out, File{
				ID:            f.Id,
				Name:          f.Name,
				MimeType:      f.MimeType,
				WebViewLink:   f.WebViewLink,
				ThumbnailLink: f.ThumbnailLink,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drive: list %s: %w", folderID, err)
	}
	return out, nil
}

func imageQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", escapeQuery(folderID))
}

// escapeQuery escapes a value for use inside a single-quoted Drive query string.
func escapeQuery(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '\'' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// LazyClient defers authentication to the first listing, so bad or missing
// credentials fail that request instead of server startup. A failed setup
// is attempted again on the next request; a successful one is kept.
type LazyClient struct {
	CredentialsFile string
	Options         []option.ClientOption

	mu     sync.Mutex
	client *Client
}

func NewLazyClient(credentialsFile string, opts ...option.ClientOption) *LazyClient {
	return &LazyClient{CredentialsFile: credentialsFile, Options: opts}
}

func (l *LazyClient) ListImages(ctx context.Context, folderID string) ([]File, error) {
	c, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListImages(ctx, folderID)
}

func (l *LazyClient) get(ctx context.Context) (*Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}
	c, err := NewClient(ctx, l.CredentialsFile, l.Options...)
	if err != nil {
		return nil, err
	}
	l.client = c
	return c, nil
}
