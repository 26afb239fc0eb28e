// Package config reads the settings of the standalone driver.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/nmezhenskyi/cardsrv/internal/staticsrv"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// loopback accepts only loopback IP addresses.
	_ = v.RegisterValidation("loopback", func(fl validator.FieldLevel) bool {
		ip := net.ParseIP(fl.Field().String())
		return ip != nil && ip.IsLoopback()
	})
	return v
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`   // Port to listen on.
	Host string `toml:"host" validate:"required,loopback"` // Loopback address to bind.
	Root string `toml:"root" validate:"required"`          // Directory with the web front-end.
}

type BrowserConfig struct {
	OpenOnStart bool `toml:"open_on_start"` // If true opens the front-end once the server is up.
}

type LogConfig struct {
	Verbosity string `toml:"verbosity" validate:"oneof=prod dev none"` // Accepted values: "prod", "dev", or "none".
}

// Config contains configurable settings for the program.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Browser BrowserConfig `toml:"browser"`
	Log     LogConfig     `toml:"log"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port: staticsrv.DefaultPort,
			Host: staticsrv.DefaultHost,
			Root: "web",
		},
		Log: LogConfig{Verbosity: "none"},
	}
}

// ParseAndValidate reads the config file on top of the defaults. A missing file
// is not an error. A relative Server.Root is resolved against the file's directory.
func ParseAndValidate(filename string) (Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(filename, &conf); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return conf, fmt.Errorf("decode %q: %w", filename, err)
	}

	if err := validate.Struct(conf); err != nil {
		return conf, fmt.Errorf("validate: %w", err)
	}

	if !filepath.IsAbs(conf.Server.Root) {
		conf.Server.Root = filepath.Join(filepath.Dir(filename), conf.Server.Root)
	}
	return conf, nil
}
