package config

// BotConfig represents the complete watch-target configuration
type BotConfig struct {
	Watch    WatchInfo   `yaml:"watch"`
	Settings BotSettings `yaml:"settings"`
}

// WatchInfo names the communities and account feeds the bot consumes
type WatchInfo struct {
	Subreddits []string `yaml:"subreddits"`
}

// BotSettings contains tunable bot behavior
type BotSettings struct {
	RetractionThreshold int `yaml:"retraction_threshold"` // replies scored below this are deleted
	PollInterval        int `yaml:"poll_interval"`        // seconds, overrides the process-level default when set
	StreamPageSize      int `yaml:"stream_page_size"`     // items fetched per listing page
}
