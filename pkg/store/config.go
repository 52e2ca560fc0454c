package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyRemoteURL   = "remote.url"
	KeyDatasetURL  = "dataset.url"
	KeyHTTPTimeout = "http.timeout"
	KeyStatePath   = "state.path"
	KeyLogLevel    = "log.level"
)

// Defaults for the configuration keys.
const (
	DefaultRemoteURL  = "http://localhost:3000"
	DefaultDatasetURL = "https://restcountries.com/v3.1/all?fields=name,flags,population,capital,region,cca3,borders"
	DefaultTimeout    = 15 * time.Second
	DefaultStatePath  = "~/.wherein"
	DefaultLogLevel   = "warn"
)

// Config is the resolved client configuration.
type Config interface {
	RemoteURL() string
	DatasetURL() string
	Timeout() time.Duration
	StatePath() string
	LogLevel() string
	// Source is the config file in use, empty when only defaults and
	// environment apply.
	Source() string
}

// LoadConfig reads .wherein.(yaml|json|toml) from $WHEREIN_CONFIG_PATH, the
// working directory or the home directory, then applies WHEREIN_*
// environment overrides (WHEREIN_REMOTE_URL and so on).
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault(KeyRemoteURL, DefaultRemoteURL)
	v.SetDefault(KeyDatasetURL, DefaultDatasetURL)
	v.SetDefault(KeyHTTPTimeout, DefaultTimeout)
	v.SetDefault(KeyStatePath, DefaultStatePath)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	v.SetConfigName(".wherein") // .yaml is implicit
	v.SetEnvPrefix("WHEREIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("WHEREIN_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	statePath, err := homedir.Expand(v.GetString(KeyStatePath))
	if err != nil {
		return nil, fmt.Errorf("store: expand %s: %w", KeyStatePath, err)
	}

	timeout := v.GetDuration(KeyHTTPTimeout)
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &fileConfig{
		Remote:  strings.TrimSpace(v.GetString(KeyRemoteURL)),
		Dataset: strings.TrimSpace(v.GetString(KeyDatasetURL)),
		HTTP:    timeout,
		Path:    statePath,
		Level:   strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		File:    v.ConfigFileUsed(),
	}, nil
}

// StaticConfig builds a Config from explicit values, for tests and embedding.
func StaticConfig(remoteURL, datasetURL, statePath string) Config {
	return &fileConfig{
		Remote:  remoteURL,
		Dataset: datasetURL,
		HTTP:    DefaultTimeout,
		Path:    statePath,
		Level:   DefaultLogLevel,
	}
}

type fileConfig struct {
	Remote  string        `json:"remote_url"`
	Dataset string        `json:"dataset_url"`
	HTTP    time.Duration `json:"http_timeout"`
	Path    string        `json:"state_path"`
	Level   string        `json:"log_level"`
	File    string        `json:"config_file,omitempty"`
}

func (f *fileConfig) RemoteURL() string      { return f.Remote }
func (f *fileConfig) DatasetURL() string     { return f.Dataset }
func (f *fileConfig) Timeout() time.Duration { return f.HTTP }
func (f *fileConfig) StatePath() string      { return f.Path }
func (f *fileConfig) LogLevel() string       { return f.Level }
func (f *fileConfig) Source() string         { return f.File }
