package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/thereayou/voxus-signal/internal/events"
)

var defaultOrigins = []string{
	"https://thinkenlac.es",
	"https://www.thinkenlac.es",
	"https://thinkandcreateservices.com",
	"https://www.thinkandcreateservices.com",
	"http://localhost:3000",
	"http://localhost:8080",
	"http://192.168.1.1:8080",
	"http://192.168.1.2:8080",
	"http://192.168.1.3:8080",
	"http://192.168.0.1:8080",
	"http://192.168.0.2:8080",
}

var defaultOriginSuffixes = []string{".thinkenlac.es", ".thinkandcreateservices.com"}

type Config struct {
	Server ServerConfig
	Socket SocketConfig
	Rooms  RoomConfig
	CORS   CORSConfig

	LogLevel string
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type SocketConfig struct {
	MaxMessageBytes int64
	PingInterval    time.Duration
	PongWait        time.Duration
}

type RoomConfig struct {
	DefaultMinutes    int
	MaxMinutes        int
	Capacity          int
	HistoryLimit      int
	TickInterval      time.Duration
	JoinAnnounceDelay time.Duration
}

type CORSConfig struct {
	AllowedOrigins  []string
	AllowedSuffixes []string
}

// Load reads .env.local and .env when present and then the process
// environment. Malformed values are reported instead of silently defaulted.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	var errs []string
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: strings.TrimPrefix(getEnvOrDefault("PORT", "3000"), ":"),
		},
		CORS: CORSConfig{
			AllowedOrigins:  getListOrDefault("ALLOWED_ORIGINS", defaultOrigins),
			AllowedSuffixes: getListOrDefault("ALLOWED_ORIGIN_SUFFIXES", defaultOriginSuffixes),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	var err error
	cfg.Server.ShutdownTimeout, err = getDurationOrDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
	collect(err)

	cfg.Socket.PingInterval, err = getDurationOrDefault("PING_INTERVAL", 25*time.Second)
	collect(err)
	cfg.Socket.PongWait, err = getDurationOrDefault("PONG_WAIT", 60*time.Second)
	collect(err)
	maxBytes, err := getIntOrDefault("MAX_MESSAGE_BYTES", 10_000_000)
	collect(err)
	cfg.Socket.MaxMessageBytes = int64(maxBytes)

	cfg.Rooms.DefaultMinutes, err = getIntOrDefault("DEFAULT_ROOM_MINUTES", 60)
	collect(err)
	cfg.Rooms.MaxMinutes, err = getIntOrDefault("MAX_ROOM_MINUTES", 24*60)
	collect(err)
	cfg.Rooms.Capacity, err = getIntOrDefault("ROOM_CAPACITY", 10)
	collect(err)
	cfg.Rooms.HistoryLimit, err = getIntOrDefault("CHAT_HISTORY_LIMIT", 100)
	collect(err)
	cfg.Rooms.TickInterval, err = getDurationOrDefault("TICK_INTERVAL", time.Second)
	collect(err)
	cfg.Rooms.JoinAnnounceDelay, err = getDurationOrDefault("JOIN_ANNOUNCE_DELAY", 100*time.Millisecond)
	collect(err)

	if len(errs) == 0 {
		collect(cfg.validate())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.ParseUint(c.Server.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Server.Port)
	}
	if c.Socket.PingInterval >= c.Socket.PongWait {
		return fmt.Errorf("PING_INTERVAL (%s) must be shorter than PONG_WAIT (%s)", c.Socket.PingInterval, c.Socket.PongWait)
	}
	if c.Socket.MaxMessageBytes <= 0 {
		return fmt.Errorf("MAX_MESSAGE_BYTES must be positive")
	}
	if c.Rooms.DefaultMinutes <= 0 || c.Rooms.Capacity <= 0 || c.Rooms.HistoryLimit <= 0 {
		return fmt.Errorf("DEFAULT_ROOM_MINUTES, ROOM_CAPACITY and CHAT_HISTORY_LIMIT must be positive")
	}
	if c.Rooms.MaxMinutes < c.Rooms.DefaultMinutes || c.Rooms.MaxMinutes > events.MaxDurationMinutes {
		return fmt.Errorf("MAX_ROOM_MINUTES must be between DEFAULT_ROOM_MINUTES (%d) and %d", c.Rooms.DefaultMinutes, events.MaxDurationMinutes)
	}
	if c.Rooms.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive")
	}
	if c.Rooms.JoinAnnounceDelay < 0 {
		return fmt.Errorf("JOIN_ANNOUNCE_DELAY must not be negative")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %v", key, err)
	}
	return d, nil
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %v", key, err)
	}
	return n, nil
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
