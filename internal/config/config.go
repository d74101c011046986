package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/amaumene/plextrakt/internal/utils"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "PLEXTRAKT"

// Flag names, also used as viper keys
const (
	KeyHost         = "host"
	KeyPort         = "port"
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeyAPIKey       = "key"
	KeyRate         = "rate"
	KeyNoMovies     = "no-movies"
	KeyNoShows      = "no-shows"
	KeyMaxHate      = "max-hate"
	KeyMinLove      = "min-love"
	KeyVerbose      = "verbose"
	KeyMovieSection = "movie-section"
	KeyShowSection  = "show-section"
	KeyTraktURL     = "trakt-url"
	KeyLogFile      = "log-file"
	KeyIgnoreFile   = "ignore-file"
	KeyTimeout      = "timeout"
	KeySchedule     = "schedule"
)

// Defaults
const (
	DefaultHost         = "localhost"
	DefaultPort         = 32400
	DefaultMaxHate      = 3
	DefaultMinLove      = 8
	DefaultMovieSection = "1"
	DefaultShowSection  = "2"
	DefaultTraktURL     = "http://api.trakt.tv"
	DefaultTimeout      = 30 * time.Second
)

// Config holds the connection settings for one process lifetime
type Config struct {
	// Plex
	PlexHost     string
	PlexPort     int
	MovieSection string
	ShowSection  string

	// Trakt
	TraktUsername string
	TraktPassword string
	TraktAPIKey   string
	TraktURL      string

	// Sync behaviour
	Rate       bool
	SyncMovies bool
	SyncShows  bool
	MaxHate    int // Highest rating flagged "hate"
	MinLove    int // Lowest rating flagged "love"
	IgnoreFile string

	// Runtime
	Timeout  time.Duration // 0 disables the per-request timeout
	Schedule string        // cron expression, empty runs once

	// Logging
	LogFile string
	Verbose bool
}

// ValidationError reports an invalid or missing setting
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RegisterFlags declares every command line flag on fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyHost, "H", DefaultHost, "Hostname or IP of plex server")
	fs.IntP(KeyPort, "P", DefaultPort, "Port of the plex server")
	fs.StringP(KeyUsername, "u", "", "trakt.tv username")
	fs.StringP(KeyPassword, "p", "", "trakt.tv password")
	fs.StringP(KeyAPIKey, "k", "", "trakt.tv API key")
	fs.BoolP(KeyRate, "r", false, "Submit plex ratings to trakt")
	fs.Bool(KeyNoMovies, false, "Do not sync watched movies")
	fs.Bool(KeyNoShows, false, "Do not sync watched show episodes")
	fs.Int(KeyMaxHate, DefaultMaxHate, `Maximum plex rating (0-10) for flagging an item with "hate"`)
	fs.Int(KeyMinLove, DefaultMinLove, `Minimum plex rating (0-10) for flagging an item with "love"`)
	fs.BoolP(KeyVerbose, "v", false, "Log detailed debug output")
	fs.String(KeyMovieSection, DefaultMovieSection, "Plex library section id holding movies")
	fs.String(KeyShowSection, DefaultShowSection, "Plex library section id holding shows")
	fs.String(KeyLogFile, "", "Log file path (default: syncer.log next to the executable)")
	fs.String(KeyIgnoreFile, "", "File listing titles (one per line) that are never reported")
	fs.Duration(KeyTimeout, DefaultTimeout, "Timeout for a single HTTP request (0 disables)")
	fs.String(KeySchedule, "", `Cron expression to keep syncing on, e.g. "0 */6 * * *"`)
	fs.String(KeyTraktURL, DefaultTraktURL, "trakt.tv API base URL")
	_ = fs.MarkHidden(KeyTraktURL)
}

// Load resolves flags, PLEXTRAKT_* environment variables and an optional
// .env file in the working directory into a validated Config. Changed flags
// win over the environment, which wins over .env, which wins over flag
// defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	return LoadDir(fs, ".")
}

// LoadDir is Load with the .env file looked up in dir
func LoadDir(fs *pflag.FlagSet, dir string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if err := mergeDotEnv(v, dir); err != nil {
		return nil, err
	}

	config := &Config{
		// Plex
		PlexHost:     v.GetString(KeyHost),
		PlexPort:     v.GetInt(KeyPort),
		MovieSection: v.GetString(KeyMovieSection),
		ShowSection:  v.GetString(KeyShowSection),

		// Trakt
		TraktUsername: v.GetString(KeyUsername),
		TraktPassword: v.GetString(KeyPassword),
		TraktAPIKey:   v.GetString(KeyAPIKey),
		TraktURL:      strings.TrimRight(v.GetString(KeyTraktURL), "/"),

		// Sync behaviour
		Rate:       v.GetBool(KeyRate),
		SyncMovies: !v.GetBool(KeyNoMovies),
		SyncShows:  !v.GetBool(KeyNoShows),
		MaxHate:    v.GetInt(KeyMaxHate),
		MinLove:    v.GetInt(KeyMinLove),
		IgnoreFile: v.GetString(KeyIgnoreFile),

		// Runtime
		Timeout:  v.GetDuration(KeyTimeout),
		Schedule: strings.TrimSpace(v.GetString(KeySchedule)),

		// Logging
		LogFile: v.GetString(KeyLogFile),
		Verbose: v.GetBool(KeyVerbose),
	}

	if config.LogFile == "" {
		config.LogFile = utils.DefaultLogFile()
	} else if abs, err := filepath.Abs(config.LogFile); err == nil {
		config.LogFile = abs
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks credentials and rating thresholds
func (c *Config) Validate() error {
	if c.TraktUsername == "" {
		return &ValidationError{Field: KeyUsername, Message: "Please define a trakt username (-u)."}
	}
	if c.TraktAPIKey == "" {
		return &ValidationError{Field: KeyAPIKey, Message: "Please define a trakt API key (-k)."}
	}
	if c.TraktPassword == "" {
		return &ValidationError{Field: KeyPassword, Message: "Please define a trakt password (-p)."}
	}
	if c.MaxHate < 0 || c.MaxHate > 10 {
		return &ValidationError{Field: KeyMaxHate, Message: "--max-hate should be between 0 and 10"}
	}
	if c.MinLove < 0 || c.MinLove > 10 {
		return &ValidationError{Field: KeyMinLove, Message: "--min-love should be between 0 and 10"}
	}
	if c.PlexPort <= 0 || c.PlexPort > 65535 {
		return &ValidationError{Field: KeyPort, Message: fmt.Sprintf("--port %d is not a valid port", c.PlexPort)}
	}
	if c.Timeout < 0 {
		return &ValidationError{Field: KeyTimeout, Message: "--timeout must not be negative"}
	}
	return nil
}

// PlexBaseURL returns the root URL of the Plex server
func (c *Config) PlexBaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.PlexHost, c.PlexPort)
}

// mergeDotEnv loads PLEXTRAKT_* entries of a .env file in dir, if present
func mergeDotEnv(v *viper.Viper, dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	dotenv := viper.New()
	dotenv.SetConfigFile(path)
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	prefix := strings.ToLower(EnvPrefix) + "_"
	values := make(map[string]interface{})
	for _, key := range dotenv.AllKeys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.ReplaceAll(strings.TrimPrefix(key, prefix), "_", "-")
		values[name] = dotenv.Get(key)
	}

	return v.MergeConfigMap(values)
}
