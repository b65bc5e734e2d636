package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

const xdgConfigFile = "tictactoe/config.yml"

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	// OnFailureStall keeps the remote turn pending after a failed request.
	OnFailureStall = "stall"
	// OnFailureFallback plays a random free cell after a failed request.
	OnFailureFallback = "fallback"
)

var (
	ErrUnknownStorage   = errors.New("unknown storage")
	ErrUnknownOnFailure = errors.New("unknown move source failure policy")
)

type Config struct {
	LogLevel         string           `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort         string           `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage          string           `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis            Redis            `yaml:"redis"`
	Session          Session          `yaml:"session"`
	MoveSource       MoveSource       `yaml:"move-source"`
	MoveSourceServer MoveSourceServer `yaml:"move-source-server"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Session struct {
	TTL time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"1h"`
}

type MoveSource struct {
	URL     string        `yaml:"url" env:"MOVE_SOURCE_URL" env-default:"http://localhost:5000/ai-move"`
	Timeout time.Duration `yaml:"timeout" env:"MOVE_SOURCE_TIMEOUT" env-default:"10s"`
	// MaxAttempts counts the first request; zero means the default.
	MaxAttempts uint64 `yaml:"max-attempts" env:"MOVE_SOURCE_MAX_ATTEMPTS" env-default:"3"`
	OnFailure   string `yaml:"on-failure" env:"MOVE_SOURCE_ON_FAILURE" env-default:"stall"`
	AutoPlay    bool   `yaml:"auto-play" env:"MOVE_SOURCE_AUTO_PLAY"`
	// AutoPlayTimeout bounds one auto-play request including its retries.
	AutoPlayTimeout time.Duration `yaml:"auto-play-timeout" env:"MOVE_SOURCE_AUTO_PLAY_TIMEOUT" env-default:"30s"`
}

// Retries is the number of requests allowed after the first one.
func (that *MoveSource) Retries() uint64 {
	if that.MaxAttempts == 0 {
		return 0
	}
	return that.MaxAttempts - 1
}

type MoveSourceServer struct {
	Port string `yaml:"port" env:"MOVE_SOURCE_SERVER_PORT" env-default:"5000"`
}

// MustLoad - loads the configuration, panics on failure.
func MustLoad(path string) *Config {
	conf, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return conf
}

// Load reads path when it exists, otherwise the first tictactoe/config.yml
// found in the XDG config directories, otherwise only env and defaults.
func Load(path string) (*Config, error) {
	conf := &Config{}

	file, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	if file == "" {
		err = cleanenv.ReadEnv(conf)
	} else {
		err = cleanenv.ReadConfig(file, conf)
	}

	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	if err = conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("could not stat config %s: %w", path, err)
		}
	}

	if found, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return found, nil
	}

	return "", nil
}

func (that *Config) validate() error {
	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStorage, that.Storage)
	}

	switch that.MoveSource.OnFailure {
	case OnFailureStall, OnFailureFallback:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOnFailure, that.MoveSource.OnFailure)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// SlogLevel maps log-level to a slog level. Unknown values mean info.
func (that *Config) SlogLevel() slog.Level {
	switch that.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
