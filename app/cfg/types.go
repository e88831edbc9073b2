package cfg

type Cfg struct {
	// Reddit API credentials
	ClientID     string
	ClientSecret string
	BotUsername  string
	BotPassword  string
	UserAgent    string

	// Dedup store configuration
	RedisHost     string
	RedisPort     string
	RedisDB       int
	RedisPassword string

	// Reply journal configuration
	DBPath string

	// Application configuration
	ConfigFile   string
	Port         string
	PollInterval int

	// Application metadata
	Debug   bool
	Version string
}
