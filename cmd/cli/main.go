package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:3000"

type app struct {
	baseURL string
	client  *http.Client
	out     io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{
		client: &http.Client{Timeout: 2 * time.Minute}, // probe mode can take a while
		out:    out,
	}

	root := &cobra.Command{
		Use:           "randomframe",
		Short:         "Client for a randomframe server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.baseURL, "api", envOr("RANDOMFRAME_API", defaultBaseURL), "server base URL")

	root.AddCommand(
		&cobra.Command{
			Use:   "folders",
			Short: "Show the current folder and the folders that hold images",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var resp foldersResponse
				if err := a.doJSON(cmd.Context(), http.MethodGet, "/api/folders", nil, &resp); err != nil {
					return err
				}
				return a.printJSON(resp)
			},
		},
		&cobra.Command{
			Use:   "select <folder|random>",
			Short: "Switch the current folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var resp struct {
					Current string `json:"current"`
				}
				if err := a.doJSON(cmd.Context(), http.MethodPost, "/api/folders/select", map[string]string{"folder": args[0]}, &resp); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "current folder: %s\n", resp.Current)
				return nil
			},
		},
		&cobra.Command{
			Use:   "generate",
			Short: "Draw an image and caption from the current folder",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var sel selectionResponse
				if err := a.doJSON(cmd.Context(), http.MethodPost, "/api/generate", nil, &sel); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s\n%s\nSource: %s folder\n", sel.ImageURL, sel.Caption, sel.Folder)
				return nil
			},
		},
		&cobra.Command{
			Use:   "content",
			Short: "Fetch random content from a drive-mode server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var resp map[string]any
				if err := a.doJSON(cmd.Context(), http.MethodGet, "/api/random-content", nil, &resp); err != nil {
					return err
				}
				return a.printJSON(resp)
			},
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print every selection pushed to displays",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				wsURL, err := websocketURL(a.baseURL, "/ws")
				if err != nil {
					return err
				}
				return a.watch(cmd.Context(), wsURL, -1)
			},
		},
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
