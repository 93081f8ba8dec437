package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the client configuration.
type AppConfig struct {
	APIBaseURL     string
	SocketURL      string
	Username       string
	Password       string
	RequestTimeout time.Duration
}

// Global variable to hold the loaded configuration
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables.
// It first tries to load from a .env file if present.
func LoadConfig(envPath ...string) {
	envFile := ".env"
	if len(envPath) > 0 {
		envFile = envPath[0]
	}

	err := godotenv.Load(envFile)
	if err != nil {
		// Not fatal: deployed environments set real env vars instead.
		log.Printf("Warning: Could not load %s file: %v. Relying on environment variables.", envFile, err)
	}

	apiURL := getEnv("API_URL", "http://localhost:8080/api/v1")
	socketURL := getEnv("SOCKET_URL", deriveSocketURL(apiURL))
	username := getEnv("LINKSPARK_USER", "")
	password := getEnv("LINKSPARK_PASSWORD", "")

	timeoutSecStr := getEnv("REQUEST_TIMEOUT_SECONDS", "10")
	timeoutSec, err := strconv.Atoi(timeoutSecStr)
	if err != nil {
		log.Printf("Warning: Invalid REQUEST_TIMEOUT_SECONDS value '%s', using default 10s. Error: %v", timeoutSecStr, err)
		timeoutSec = 10
	}

	Cfg = &AppConfig{
		APIBaseURL:     strings.TrimSuffix(apiURL, "/"),
		SocketURL:      socketURL,
		Username:       username,
		Password:       password,
		RequestTimeout: time.Second * time.Duration(timeoutSec),
	}

	log.Printf("Configuration loaded: API=%s, Socket=%s, RequestTimeout=%v", Cfg.APIBaseURL, Cfg.SocketURL, Cfg.RequestTimeout)
}

// getEnv reads an environment variable or returns a default value
func getEnv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if fallback != "" {
		log.Printf("Warning: Environment variable %s not set, using fallback value: %s", key, fallback)
	}
	return fallback
}

// deriveSocketURL turns an http(s) API base URL into the ws(s) endpoint
// exposed by the same server, e.g. http://host:8080/api/v1 -> ws://host:8080/ws.
func deriveSocketURL(apiURL string) string {
	u := apiURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	scheme := ""
	if i := strings.Index(u, "://"); i != -1 {
		scheme = u[:i+3]
		u = u[i+3:]
	}
	if j := strings.Index(u, "/"); j != -1 {
		u = u[:j]
	}
	return scheme + u + "/ws"
}
