package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// MaxDocumentBytes is the maximum size of a document read from or
	// written to disk.
	MaxDocumentBytes int64 `json:"max_document_bytes"`

	// PrettyIndent is the indentation width for serialized documents.
	// 0 means the default; use -1 for compact output.
	PrettyIndent int `json:"pretty_indent,omitempty"`

	// DefaultLocale is the display locale used when an operation does
	// not name one. The sentinel "ALL" keeps every translation.
	DefaultLocale string `json:"default_locale,omitempty"`

	// DefaultStyle forces a document style ("metainfo" or "catalog")
	// on operations that do not name one. Empty means infer it from
	// the document format.
	DefaultStyle string `json:"default_style,omitempty"`

	// MediaBaseURL is the base URL for resolving relative media
	// references in catalog documents.
	MediaBaseURL string `json:"media_baseurl,omitempty"`

	// AllowedPaths is an allowlist of directories for file operations.
	// Paths outside the working directory require either being in this
	// list or AllowUnsafePaths=true. Paths should be absolute
	// (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for file
	// operations. When true, any directory is allowed (but symlink and
	// extension checks still apply).
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. All tools are enabled by default. Unknown tool
	// names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxDocumentBytes: 8 << 20,
		PrettyIndent:     2,
		DefaultLocale:    "C",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.asrel.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.asrel) and repo (.asrel) directories.
// Repo config is found by walking upward from startDir to find the nearest .asrel/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	// Walk upward from startDir to find repo config
	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .asrel/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".asrel", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, not found
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, return zero config
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.MaxDocumentBytes = overlay.MaxDocumentBytes
	if result.MaxDocumentBytes == 0 {
		result.MaxDocumentBytes = base.MaxDocumentBytes
	}

	result.PrettyIndent = overlay.PrettyIndent
	if result.PrettyIndent == 0 {
		result.PrettyIndent = base.PrettyIndent
	}

	// Strings: overlay wins if non-empty, else base
	result.DefaultLocale = overlay.DefaultLocale
	if result.DefaultLocale == "" {
		result.DefaultLocale = base.DefaultLocale
	}

	result.DefaultStyle = overlay.DefaultStyle
	if result.DefaultStyle == "" {
		result.DefaultStyle = base.DefaultStyle
	}

	result.MediaBaseURL = overlay.MediaBaseURL
	if result.MediaBaseURL == "" {
		result.MediaBaseURL = base.MediaBaseURL
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
