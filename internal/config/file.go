package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the flags in a TOML or YAML file.
type fileConfig struct {
	Host         string   `toml:"host" yaml:"host"`
	ConsolePort  int      `toml:"console_port" yaml:"console_port"`
	TransferPort int      `toml:"transfer_port" yaml:"transfer_port"`
	User         string   `toml:"user" yaml:"user"`
	Password     string   `toml:"password" yaml:"password"`
	Settle       duration `toml:"settle" yaml:"settle"`
	Poll         duration `toml:"poll" yaml:"poll"`
	KeyDelay     duration `toml:"key_delay" yaml:"key_delay"`
	DialTimeout  duration `toml:"dial_timeout" yaml:"dial_timeout"`
	LogFile      string   `toml:"log_file" yaml:"log_file"`
	Charset      string   `toml:"charset" yaml:"charset"`
	Trace        bool     `toml:"trace" yaml:"trace"`
	Verbose      bool     `toml:"verbose" yaml:"verbose"`
}

// duration reads "250ms" style strings.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func loadFile(path string) (fileConfig, error) {
	var cfg fileConfig
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config %s: unsupported format (want .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
