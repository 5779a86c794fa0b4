package cli

import (
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	Token      string
	TokenFile  string
	PlayerID   string
	PlayerFile string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("BUZZQUIZ_SERVER", "http://localhost:8080"),
		Token:      os.Getenv("BUZZQUIZ_TOKEN"),
		TokenFile:  getEnvOrDefault("BUZZQUIZ_TOKEN_FILE", defaultStateFile("token")),
		PlayerID:   os.Getenv("BUZZQUIZ_PLAYER"),
		PlayerFile: getEnvOrDefault("BUZZQUIZ_PLAYER_FILE", defaultStateFile("player")),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadState loads the token and player id from their files if not already set
func (c *Config) LoadState() error {
	if c.Token == "" {
		data, err := os.ReadFile(c.TokenFile)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		c.Token = string(data)
	}

	if c.PlayerID == "" {
		data, err := os.ReadFile(c.PlayerFile)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		c.PlayerID = string(data)
	}

	return nil
}

// SaveToken saves the account token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token
	return writeStateFile(c.TokenFile, token)
}

// SavePlayerID saves the gameplay player id to the player file
func (c *Config) SavePlayerID(playerID string) error {
	c.PlayerID = playerID
	return writeStateFile(c.PlayerFile, playerID)
}

func writeStateFile(path, value string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(value), 0600)
}

func defaultStateFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".buzzquiz", name)
	}
	return filepath.Join(home, ".buzzquiz", name)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
