package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/modcatalog/internal/loader"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app" json:"app"`
	Catalog CatalogConfig     `yaml:"catalog" json:"catalog"`
	Site    SiteConfig        `yaml:"site" json:"site"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" json:"log_level"`
	HTTP     HTTPConfig `yaml:"http" json:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" json:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CatalogConfig locates the catalog asset.
//
// The json tags mirror the yaml keys so validation errors name the key
// the user wrote.
//
// BaseURL is the site origin the asset path is resolved against, e.g.
// "https://example.github.io/mindustry-mods". Timeout bounds the single
// catalog request; zero disables the bound.
type CatalogConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	AssetPath string        `yaml:"asset_path" json:"asset_path"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	if c.AssetPath == "" {
		c.AssetPath = loader.DefaultAssetPath
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// SiteConfig holds presentation settings and the hosts used to derive
// per-mod URLs.
type SiteConfig struct {
	Title          string `yaml:"title" json:"title"`
	HomePrefix     string `yaml:"home_prefix" json:"home_prefix"`
	Stylesheet     string `yaml:"stylesheet" json:"stylesheet"`
	CodeHost       string `yaml:"code_host" json:"code_host"`
	RawContentHost string `yaml:"raw_content_host" json:"raw_content_host"`
	StaticDir      string `yaml:"static_dir" json:"static_dir"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.HomePrefix, validation.Required),
		validation.Field(&c.Stylesheet, validation.Required),
		validation.Field(&c.CodeHost, validation.Required, is.URL),
		validation.Field(&c.RawContentHost, validation.Required, is.URL),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Catalog: CatalogConfig{
			BaseURL:   "https://simonwoodburyforget.github.io/mindustry-mods",
			AssetPath: loader.DefaultAssetPath,
			Timeout:   30 * time.Second,
		},
		Site: SiteConfig{
			Title:          "Mindustry Mods",
			HomePrefix:     "mindustry-mods",
			Stylesheet:     "css/listing.css",
			CodeHost:       "https://github.com",
			RawContentHost: "https://raw.githubusercontent.com",
		},
	}
}
