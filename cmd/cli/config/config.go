package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL = "http://localhost:8000"
	tokenFileName = ".highlow_token"
)

// APIURL returns the base URL for the high-low API.
// It can be overridden with the HIGHLOW_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("HIGHLOW_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// TokenPath is where the CLI keeps the bearer token between commands.
func TokenPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tokenFileName), nil
}

func SaveToken(token string) error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

// LoadToken returns the stored token, or an error telling the user to log in.
func LoadToken() (string, error) {
	path, err := TokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.New("not logged in; run 'highlow login' first")
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearToken removes the stored token. It reports false when none was stored.
func ClearToken() (bool, error) {
	path, err := TokenPath()
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
