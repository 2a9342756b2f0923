package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	ModeManifest = "manifest"
	ModeProbe    = "probe"
	ModeDrive    = "drive"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Content ContentConfig `toml:"content"`
	Drive   DriveConfig   `toml:"drive"`
}

type ServerConfig struct {
	Addr          string  `toml:"addr"`
	StaticDir     string  `toml:"static_dir"`
	RatePerSecond float64 `toml:"rate_per_second"`
	RateBurst     int     `toml:"rate_burst"`
	Debug         bool    `toml:"debug"`
}

type ContentConfig struct {
	Mode          string   `toml:"mode"`
	CaptionsPath  string   `toml:"captions"`
	ManifestPath  string   `toml:"manifest"`
	ImageBaseURL  string   `toml:"image_base_url"`
	Folders       []string `toml:"folders"`
	InitialFolder string   `toml:"initial_folder"`
}

type DriveConfig struct {
	FolderID        string `toml:"folder_id"`
	CredentialsFile string `toml:"credentials_file"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:      ":3000",
			RateBurst: 10,
		},
		Content: ContentConfig{
			Mode:          ModeManifest,
			CaptionsPath:  "captions.txt",
			ManifestPath:  "manifest.json",
			ImageBaseURL:  "http://localhost:3000",
			Folders:       []string{"Lilia", "Leylah"},
			InitialFolder: "Lilia",
		},
		Drive: DriveConfig{
			CredentialsFile: "credentials.json",
		},
	}
}

// LoadConfig layers defaults, then the TOML file at path (skipped when path
// is empty or the file does not exist), then environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// optional
		default:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if p := os.Getenv("PORT"); p != "" {
		cfg.Server.Addr = ":" + p
	}
	if v := os.Getenv("RANDOMFRAME_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RANDOMFRAME_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("RANDOMFRAME_RATE_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RANDOMFRAME_RATE_PER_SECOND: %w", err)
		}
		cfg.Server.RatePerSecond = f
	}
	if v := os.Getenv("RANDOMFRAME_MODE"); v != "" {
		cfg.Content.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("RANDOMFRAME_CAPTIONS"); v != "" {
		cfg.Content.CaptionsPath = v
	}
	if v := os.Getenv("RANDOMFRAME_MANIFEST"); v != "" {
		cfg.Content.ManifestPath = v
	}
	if v := os.Getenv("RANDOMFRAME_IMAGE_BASE_URL"); v != "" {
		cfg.Content.ImageBaseURL = v
	}
	if v := os.Getenv("RANDOMFRAME_FOLDERS"); v != "" {
		cfg.Content.Folders = SplitList(v)
	}
	if v := os.Getenv("GOOGLE_DRIVE_FOLDER_ID"); v != "" {
		cfg.Drive.FolderID = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Drive.CredentialsFile = v
	}
	return nil
}

// Validate checks what must be known at startup. A missing Drive folder id
// is not an error here; the content endpoint reports it per request.
func (c Config) Validate() error {
	switch c.Content.Mode {
	case ModeManifest:
		if c.Content.ManifestPath == "" {
			return errors.New("manifest mode needs a manifest path")
		}
	case ModeProbe:
		if c.Content.ImageBaseURL == "" {
			return errors.New("probe mode needs an image base url")
		}
		if len(c.Content.Folders) == 0 {
			return errors.New("probe mode needs at least one folder")
		}
	case ModeDrive:
	default:
		return fmt.Errorf("unknown mode %q (want %s, %s or %s)", c.Content.Mode, ModeManifest, ModeProbe, ModeDrive)
	}
	if c.Server.RatePerSecond < 0 {
		return errors.New("rate_per_second must not be negative")
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
