// Package config resolves the credential store path, master key path and
// credential name from command-line overrides, environment variables and
// default path discovery, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Default file and credential names.
const (
	DefaultStoreFile      = "MySecrets.xml"
	DefaultKeyFile        = "master.key"
	DefaultCredentialName = "MyService"
)

// discoveryDepth is how many directories, starting with the working
// directory, are searched for DefaultStoreFile.
const discoveryDepth = 4

// Config holds the resolved client configuration.
type Config struct {
	StorePath      string
	KeyPath        string
	CredentialName string
	LogLevel       slog.Level
}

// Overrides carries values given on the command line. Empty fields fall back
// to the environment.
type Overrides struct {
	StorePath      string
	KeyPath        string
	CredentialName string
	LogLevel       string
}

// Load resolves the configuration. Environment variables:
// CREDCLIENT_STORE_PATH, CREDCLIENT_KEY_PATH, CREDCLIENT_CREDENTIAL_NAME
// (MyService) and CREDCLIENT_LOG_LEVEL (warn).
//
// When no store path is given, the store and key are looked up in the first
// directory, from workDir upwards, that contains MySecrets.xml. When a store
// path is given but no key path, a master.key beside the store is preferred.
func Load(workDir string, o Overrides) (*Config, error) {
	storePath := firstNonEmpty(o.StorePath, os.Getenv("CREDCLIENT_STORE_PATH"))
	keyPath := firstNonEmpty(o.KeyPath, os.Getenv("CREDCLIENT_KEY_PATH"))

	root := FindProjectRoot(workDir)
	storeExplicit := storePath != ""
	if !storeExplicit {
		storePath = filepath.Join(root, DefaultStoreFile)
	}
	if keyPath == "" {
		keyPath = filepath.Join(root, DefaultKeyFile)
		if storeExplicit {
			beside := filepath.Join(filepath.Dir(storePath), DefaultKeyFile)
			if isFile(beside) {
				keyPath = beside
			}
		}
	}

	name := firstNonEmpty(o.CredentialName, os.Getenv("CREDCLIENT_CREDENTIAL_NAME"), DefaultCredentialName)

	level := slog.LevelWarn
	levelSource, levelText := "--log-level", o.LogLevel
	if levelText == "" {
		levelSource, levelText = "CREDCLIENT_LOG_LEVEL", os.Getenv("CREDCLIENT_LOG_LEVEL")
	}
	if levelText != "" {
		if err := level.UnmarshalText([]byte(levelText)); err != nil {
			return nil, fmt.Errorf("%s has invalid log level %q: %w", levelSource, levelText, err)
		}
	}

	return &Config{
		StorePath:      storePath,
		KeyPath:        keyPath,
		CredentialName: name,
		LogLevel:       level,
	}, nil
}

// FindProjectRoot returns the first directory, starting at start and walking
// up at most four levels, that contains MySecrets.xml. If none does, it
// returns the directory two levels above start.
func FindProjectRoot(start string) string {
	current := filepath.Clean(start)
	for i := 0; i < discoveryDepth; i++ {
		if isFile(filepath.Join(current, DefaultStoreFile)) {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return filepath.Join(start, "..", "..")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
