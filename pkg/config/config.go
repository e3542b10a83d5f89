// Package config loads icondex configuration from defaults, an optional
// .icondex.yaml file, environment variables, and flags, in that order.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all run-scoped settings. It is passed explicitly into the
// pipeline; no package consults global state.
type Config struct {
	// Source repository coordinates for the published raw URLs. Owner and
	// Repo may be left empty and inferred from the local git remote.
	Owner  string `mapstructure:"owner"`
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`

	// URLTemplate is a handlebars template rendered per entry with owner,
	// repo, branch, and path. The path placeholder must use triple braces
	// so the literal bytes pass through unescaped.
	URLTemplate string `mapstructure:"url_template"`

	// Extensions lists the allowed icon extensions (lowercase, with dot).
	Extensions []string `mapstructure:"extensions"`

	// DefaultGroup names the group for files at the scan root; it also
	// sorts before all other groups.
	DefaultGroup string `mapstructure:"default_group"`

	// Output is the manifest path; Format is json or yaml.
	Output string `mapstructure:"output"`
	Format string `mapstructure:"format"`
}

// DefaultURLTemplate publishes entries as GitHub raw URLs.
const DefaultURLTemplate = "https://raw.githubusercontent.com/{{owner}}/{{repo}}/{{branch}}/{{{path}}}"

var defaultConfig = Config{
	Branch:       "main",
	URLTemplate:  DefaultURLTemplate,
	Extensions:   []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".avif"},
	DefaultGroup: "icons",
	Output:       "manifest.json",
	Format:       "json",
}

// Load reads configuration for a scan rooted at root. A missing config file
// is not an error; a malformed one is.
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("owner", defaultConfig.Owner)
	v.SetDefault("repo", defaultConfig.Repo)
	v.SetDefault("branch", defaultConfig.Branch)
	v.SetDefault("url_template", defaultConfig.URLTemplate)
	v.SetDefault("extensions", defaultConfig.Extensions)
	v.SetDefault("default_group", defaultConfig.DefaultGroup)
	v.SetDefault("output", defaultConfig.Output)
	v.SetDefault("format", defaultConfig.Format)

	v.SetConfigName(".icondex")
	v.SetConfigType("yaml")
	if root != "" {
		v.AddConfigPath(root)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("ICONDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	normalizeExtensions(&cfg)
	return &cfg, nil
}

// AllowsExtension reports whether ext (lowercase, with dot) is configured.
func (c *Config) AllowsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func normalizeExtensions(cfg *Config) {
	for i, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Extensions[i] = ext
	}
}
