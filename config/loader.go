package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a service.
// Returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findConfigFile(serviceName)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findEnvFile(serviceName)
	}

	return resolved
}

// findConfigFile searches for <service>.yml in standard locations.
func (cr *Resolver) findConfigFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf("./%s.yml", serviceName),
		fmt.Sprintf("./%s.yaml", serviceName),
		fmt.Sprintf("./config/%s.yml", serviceName),
		"./config/config.yml",
	}
	if dir, err := cr.FileSystem.UserConfigDir(); err == nil && dir != "" {
		searchPaths = append(searchPaths, filepath.Join(dir, serviceName, "config.yml"))
	}

	for _, path := range searchPaths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files in the working directory.
func (cr *Resolver) findEnvFile(serviceName string) string {
	for _, path := range []string{fmt.Sprintf(".env.%s", serviceName), ".env"} {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Env var prefix; defaults to the upper-cased service name
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// LoadConfig loads configuration for a service into the provided cfg struct.
// It searches for config and .env files in standard locations, binds
// prefixed environment variables, and unmarshals the result into cfg.
// A missing config file is not an error; an unreadable one is.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.EnvPrefix == "" {
		lc.EnvPrefix = strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_"))
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc)
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	// 1. YAML config first (base configuration)
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
	}

	// 2. .env file populates the process environment
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", files.EnvFile, err)
		}
	}

	// 3. Prefixed environment variables override file values
	bindPrefixedEnv(v, lc.EnvPrefix, os.Environ())

	// 4. Unmarshal into config struct
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}

	return nil
}

// bindPrefixedEnv sets every PREFIX_* variable on v under all nested key
// variants its underscore-separated remainder could map to.
func bindPrefixedEnv(v *viper.Viper, prefix string, environ []string) {
	head := prefix + "_"
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, head) {
			continue
		}
		for _, variant := range generateEnvKeyVariants(strings.TrimPrefix(key, head)) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates the possible nested key forms for an env key.
// Examples:
//
//	CLIENT_BASE_URI -> [client_base_uri, client.base.uri, client.base_uri]
//	CLIENT_AUTH_API_KEY -> [..., client.auth.api_key, client.auth_api_key, ...]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// every split point between a dotted prefix and an underscored suffix
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}
