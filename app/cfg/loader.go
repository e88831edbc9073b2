package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Reddit API credentials
	ClientID     string `long:"client-id" env:"CLIENT_ID" description:"Reddit API client ID (required)" required:"true"`
	ClientSecret string `long:"client-secret" env:"CLIENT_SECRET" description:"Reddit API client secret (required)" required:"true"`
	BotUsername  string `long:"bot-username" env:"BOT_USERNAME" description:"Bot account username (required)" required:"true"`
	BotPassword  string `long:"bot-password" env:"BOT_PASSWORD" description:"Bot account password (required)" required:"true"`
	UserAgent    string `long:"bot-user-agent" env:"BOT_USER_AGENT" default:"SiteSummarizerBot/1.0" description:"User agent string for platform requests"`

	// Dedup store configuration
	RedisHost     string `long:"redis-host" env:"REDIS_HOST" default:"localhost" description:"Dedup store host"`
	RedisPort     string `long:"redis-port" env:"REDIS_PORT" default:"6379" description:"Dedup store port"`
	RedisDB       int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Dedup store database index"`
	RedisPassword string `long:"redis-password" env:"REDIS_PASSWORD" description:"Dedup store password (optional)"`

	// Reply journal configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./summarizer.db" description:"Path to the SQLite reply journal"`

	// Application configuration
	ConfigFile   string `long:"config-file" env:"CONFIG_FILE" default:"./bot.yml" description:"Path to the watch-target configuration file"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP status server port"`
	PollInterval int    `long:"poll-interval" env:"POLL_INTERVAL" default:"10" description:"Feed poll interval in seconds"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		ClientID:      raw.ClientID,
		ClientSecret:  raw.ClientSecret,
		BotUsername:   raw.BotUsername,
		BotPassword:   raw.BotPassword,
		UserAgent:     raw.UserAgent,
		RedisHost:     raw.RedisHost,
		RedisPort:     raw.RedisPort,
		RedisDB:       raw.RedisDB,
		RedisPassword: raw.RedisPassword,
		DBPath:        raw.DBPath,
		ConfigFile:    raw.ConfigFile,
		Port:          raw.Port,
		PollInterval:  raw.PollInterval,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	return cfg, nil
}
