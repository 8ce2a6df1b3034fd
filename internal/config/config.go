// Package config loads the process-wide squrl configuration: theme
// selection, UI toggles consumed by the (out-of-scope) terminal UI, the
// preferred on-disk collection format, and proxy settings the request
// builder reads when a request's "use system proxy" setting is enabled.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ProxyConfig holds the process-wide proxy URLs used when a request's
// UseSystemProxy setting resolves to true.
type ProxyConfig struct {
	HTTPProxy  string `toml:"http_proxy"`
	HTTPSProxy string `toml:"https_proxy"`
}

// Config holds all tunable parameters read from squrl.toml.
//
// Config is loaded once at startup and then shared across goroutines as a
// read-only value, matching the teacher's config.Config documentation.
type Config struct {
	// Theme names a theme file consumed only by the terminal UI; the core
	// engine neither reads nor validates its contents.
	Theme string `toml:"theme"`

	// DisableSyntaxHighlighting is consumed only by the terminal UI.
	DisableSyntaxHighlighting bool `toml:"disable_syntax_highlighting"`

	// SaveRequestsResponse, when true, makes the Lifecycle Orchestrator
	// persist the owning collection to disk after every response (§4.7).
	SaveRequestsResponse bool `toml:"save_requests_response"`

	// DisableImagesPreview and DisableGraphicalProtocol are consumed only
	// by the terminal UI.
	DisableImagesPreview    bool `toml:"disable_images_preview"`
	DisableGraphicalProtocol bool `toml:"disable_graphical_protocol"`

	// WrapResponses is consumed only by the terminal UI.
	WrapResponses bool `toml:"wrap_responses"`

	// PreferredCollectionFileFormat is "json" or "yaml"; it decides the
	// extension assigned to an ephemeral collection on first save (§4.1).
	PreferredCollectionFileFormat string `toml:"preferred_collection_file_format"`

	// Proxy holds the process-wide proxy URLs.
	Proxy ProxyConfig `toml:"proxy"`
}

// DefaultConfig returns a *Config pre-filled with sensible defaults. Callers
// are free to mutate the returned struct; each call returns a fresh
// independent copy.
func DefaultConfig() *Config {
	return &Config{
		Theme:                         "default",
		DisableSyntaxHighlighting:     false,
		SaveRequestsResponse:          false,
		DisableImagesPreview:          false,
		DisableGraphicalProtocol:      false,
		WrapResponses:                 true,
		PreferredCollectionFileFormat: "json",
	}
}

// Load reads a TOML file at filename and decodes it into a Config seeded
// with DefaultConfig's values, so a partial file only overrides the fields
// it names. It returns an error if the file cannot be opened or the TOML is
// malformed.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("config: stat %q: %w", filename, err)
	}

	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(filename, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %q: %w", filename, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: %q has unknown keys: %v", filename, undecoded)
	}
	return cfg, nil
}
