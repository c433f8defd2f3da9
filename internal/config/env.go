package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// envPaths are tried in order; the first existing file wins.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
}

// APIKeys holds the provider API keys found in the environment
type APIKeys struct {
	OpenAI     string
	Gemini     string
	AssemblyAI string
	ElevenLabs string
}

// LoadEnv loads environment variables from the first .env file found and
// returns its path, or "" when none exists. Variables already set in the
// process environment are not overridden.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		return envPath, nil
	}
	return "", nil
}

// GetAPIKeys reads provider API keys from environment variables
func GetAPIKeys() *APIKeys {
	return &APIKeys{
		OpenAI:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Gemini:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		AssemblyAI: strings.TrimSpace(os.Getenv("ASSEMBLYAI_API_KEY")),
		ElevenLabs: strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
	}
}

// Available lists the providers that have a key configured.
func (k *APIKeys) Available() []string {
	keys := map[string]string{
		"assemblyai": k.AssemblyAI,
		"elevenlabs": k.ElevenLabs,
		"gemini":     k.Gemini,
		"openai":     k.OpenAI,
	}
	return lo.Filter([]string{"assemblyai", "elevenlabs", "gemini", "openai"}, func(name string, _ int) bool {
		return keys[name] != ""
	})
}
