package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the watch-target configuration
type Loader struct {
	path string
}

// NewLoader creates a new configuration loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and validates the YAML watch-target configuration file.
// A missing file yields the default configuration rather than an error.
func (l *Loader) Load() (*BotConfig, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		config := &BotConfig{}
		l.setDefaults(config)
		return config, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config BotConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	return &config, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(config *BotConfig) {
	if len(config.Watch.Subreddits) == 0 {
		config.Watch.Subreddits = []string{"SiteSummarizerBot"}
	}
	if config.Settings.RetractionThreshold == 0 {
		config.Settings.RetractionThreshold = 1
	}
	if config.Settings.StreamPageSize == 0 {
		config.Settings.StreamPageSize = 100
	}
}

// validate checks configuration invariants
func (l *Loader) validate(config *BotConfig) error {
	for _, subreddit := range config.Watch.Subreddits {
		if subreddit == "" {
			return fmt.Errorf("empty subreddit name")
		}
	}
	if config.Settings.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative")
	}
	if config.Settings.StreamPageSize < 1 || config.Settings.StreamPageSize > 100 {
		return fmt.Errorf("stream_page_size must be between 1 and 100")
	}
	return nil
}
