package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFileCandidates lists the .env locations checked in priority order,
// matching the original skill scripts: a checked-out hummingbot-api
// tree, the user's hummingbot home, then the working directory.
func envFileCandidates() []string {
	paths := []string{"hummingbot-api/.env"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".hummingbot", ".env"))
	}
	return append(paths, ".env")
}

// LoadEnvFiles loads the first existing .env candidate into the process
// environment. Variables already set in the environment win; godotenv
// never overrides them. Returns the path that was loaded, or "" when no
// candidate exists.
func LoadEnvFiles() string {
	for _, path := range envFileCandidates() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			continue
		}
		return path
	}
	return ""
}
