package config

import (
	"fmt"
	"net"
	"strconv"
)

const (
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 5000
	DefaultContentDir   = "content"
	DefaultStaticDir    = "static"
	DefaultCompaniesDir = "cie/sm"
	DefaultOutputDir    = "public"
)

// Config is the process configuration decoded by viper in cmd/root.go.
type Config struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Debug        bool   `mapstructure:"debug"`
	Reload       bool   `mapstructure:"reload"`
	SSL          bool   `mapstructure:"ssl"`
	ContentDir   string `mapstructure:"contentDir"`
	StaticDir    string `mapstructure:"staticDir"`
	CompaniesDir string `mapstructure:"companiesDir"`
	OutputDir    string `mapstructure:"outputDir"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Host:         DefaultHost,
		Port:         DefaultPort,
		Reload:       true,
		ContentDir:   DefaultContentDir,
		StaticDir:    DefaultStaticDir,
		CompaniesDir: DefaultCompaniesDir,
		OutputDir:    DefaultOutputDir,
	}
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AutoReload reports whether the serve command should watch content for changes.
func (c Config) AutoReload() bool {
	return c.Debug && c.Reload
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	dirs := map[string]string{
		"contentDir":   c.ContentDir,
		"staticDir":    c.StaticDir,
		"companiesDir": c.CompaniesDir,
		"outputDir":    c.OutputDir,
	}
	for key, dir := range dirs {
		if dir == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}
