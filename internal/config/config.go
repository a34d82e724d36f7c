package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Auth   AuthConfig   `yaml:"auth"`
}

// ServerConfig HTTP/WebSocket 服务器配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BaseURL is the address players reach the server at; it feeds invite
	// links and QR codes.
	BaseURL string `yaml:"base_url"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	PlayTimeout   int `yaml:"play_timeout"`   // 出牌超时（秒），0 关闭
	LobbyMaxAge   int `yaml:"lobby_max_age"`  // 大厅最长闲置（小时）
	SweepInterval int `yaml:"sweep_interval"` // 清理周期（分钟）
	DrawDebounce  int `yaml:"draw_debounce"`  // 摸牌去抖（毫秒）
}

// AuthConfig host token 配置
type AuthConfig struct {
	Secret string `yaml:"secret"`
}

// PlayTimeoutDuration 返回出牌超时时长
func (c *GameConfig) PlayTimeoutDuration() time.Duration {
	return time.Duration(c.PlayTimeout) * time.Second
}

// LobbyMaxAgeDuration 返回大厅最长闲置时长
func (c *GameConfig) LobbyMaxAgeDuration() time.Duration {
	return time.Duration(c.LobbyMaxAge) * time.Hour
}

// SweepIntervalDuration 返回清理周期
func (c *GameConfig) SweepIntervalDuration() time.Duration {
	return time.Duration(c.SweepInterval) * time.Minute
}

// DrawDebounceDuration 返回摸牌去抖时长
func (c *GameConfig) DrawDebounceDuration() time.Duration {
	return time.Duration(c.DrawDebounce) * time.Millisecond
}

// Load 加载配置文件，.env 与环境变量覆盖文件中的敏感项
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:3000"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.LobbyMaxAge == 0 {
		cfg.Game.LobbyMaxAge = 12
	}
	if cfg.Game.SweepInterval == 0 {
		cfg.Game.SweepInterval = 10
	}
	if cfg.Game.DrawDebounce == 0 {
		cfg.Game.DrawDebounce = 300
	}
}

// applyEnv lets deployment secrets stay out of the yaml file. A local .env
// is loaded when present; real environment variables win either way.
func (cfg *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
