package cli

import (
	"net/url"
	"os"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Username  string
	Password  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("NSCTL_SERVER", "http://localhost:3000"),
		Username:  os.Getenv("NSCTL_USER"),
		Password:  os.Getenv("NSCTL_PASSWORD"),
		Output:    "text",
		Verbose:   false,
	}
}

// WebsocketURL returns the realtime endpoint for the configured server
func (c *Config) WebsocketURL() (string, error) {
	u, err := url.Parse(strings.TrimSuffix(c.ServerURL, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws"
	return u.String(), nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
