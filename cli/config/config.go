package config

import (
	"fmt"
	"time"
)

// Config represents an htmlview.yaml configuration file.
// All values are optional and act as defaults for htmlview flags.
// CLI flags always override config values.
type Config struct {
	// Binary is an explicit viewer binary path, equivalent to setting
	// HTMLVIEW_APP_PATH.
	Binary string `yaml:"binary"`
	// JournalDir overrides the per-user session journal location.
	JournalDir string `yaml:"journal_dir"`
	// Timeout auto-closes the viewer after the given duration.
	Timeout Duration `yaml:"timeout"`

	Window    WindowConfig    `yaml:"window"`
	Behaviour BehaviourConfig `yaml:"behaviour"`
}

// WindowConfig holds window defaults from the config file.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Maximised   bool   `yaml:"maximised"`
	Fullscreen  bool   `yaml:"fullscreen"`
	AlwaysOnTop bool   `yaml:"always_on_top"`
	Theme       string `yaml:"theme"`
}

// BehaviourConfig holds behaviour defaults from the config file.
type BehaviourConfig struct {
	AllowExternalNavigation bool     `yaml:"allow_external_navigation"`
	AllowedDomains          []string `yaml:"allowed_domains"`
	EnableDevtools          bool     `yaml:"enable_devtools"`
	AllowRemoteContent      bool     `yaml:"allow_remote_content"`
	AllowNotifications      bool     `yaml:"allow_notifications"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
