package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Client struct {
	APIURL string `toml:"api_url"`
	// RequestTimeout is a time.ParseDuration string. Empty means the
	// transport default.
	RequestTimeout string `toml:"request_timeout"`
}

func (c Client) Timeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.RequestTimeout)
}

type Storage struct {
	SqliteFile string `toml:"sqlite_file"`
}

type TgBot struct {
	Enabled          bool   `toml:"enabled"`
	TelegramApiToken string `toml:"telegram_apitoken"`
}

type Server struct {
	Debug    bool   `toml:"debug_mode"`
	LogLevel string `toml:"log_level"`
}

type Config struct {
	Client  Client  `toml:"client"`
	Storage Storage `toml:"storage"`
	TgBot   TgBot   `toml:"tg_bot"`
	Server  Server  `toml:"server"`
}

var ErrNoAPIURL = errors.New("api_url is not set")

// New reads the client config file. A .env file next to the binary is
// loaded first so LIGA_API_URL and TELEGRAM_APITOKEN can come from it.
func New(path string) (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if url := os.Getenv("LIGA_API_URL"); url != "" {
		cfg.Client.APIURL = url
	}
	if token := os.Getenv("TELEGRAM_APITOKEN"); token != "" {
		cfg.TgBot.TelegramApiToken = token
	}
	if cfg.Client.APIURL == "" {
		return Config{}, ErrNoAPIURL
	}
	if _, err := cfg.Client.Timeout(); err != nil {
		return Config{}, err
	}
	if cfg.Storage.SqliteFile == "" {
		cfg.Storage.SqliteFile = "credentials.sqlite"
	}
	return cfg, nil
}

type Vocal struct {
	ID       int64  `toml:"id"`
	Name     string `toml:"name"`
	Surname  string `toml:"surname"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
	Role     string `toml:"role"`
}

type MockBackend struct {
	Host        string  `toml:"host"`
	Port        int     `toml:"port"`
	TokenSecret string  `toml:"token_secret"`
	Expiration  string  `toml:"expiration"`
	Debug       bool    `toml:"debug_mode"`
	Users       []Vocal `toml:"users"`
}

func NewMockBackend(path string) (MockBackend, error) {
	if err := loadDotEnv(); err != nil {
		return MockBackend{}, err
	}
	var cfg MockBackend
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return MockBackend{}, err
	}
	if secret := os.Getenv("MOCK_TOKEN_SECRET"); secret != "" {
		cfg.TokenSecret = secret
	}
	if cfg.Expiration == "" {
		cfg.Expiration = "24h"
	}
	if _, err := time.ParseDuration(cfg.Expiration); err != nil {
		return MockBackend{}, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
