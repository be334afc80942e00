package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/ini.v1"
)

// ConfigEnv names the environment variable pointing at a config file.
const ConfigEnv = "SIZETREE_CONFIG"

// configSection is the INI section holding sizetree settings.
const configSection = "sizetree"

// Config holds defaults read from an INI file.
type Config struct {
	Workers int
	Engine  string
	Output  string
	Width   int
}

// LoadConfig loads defaults from the [sizetree] section of the INI file at
// path. Missing keys stay zero.
func LoadConfig(path string) (Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %q: %w", path, err)
	}

	section := file.Section(configSection)

	return Config{
		Workers: section.Key("workers").MustInt(0),
		Engine:  section.Key("engine").String(),
		Output:  section.Key("output").String(),
		Width:   section.Key("width").MustInt(0),
	}, nil
}

// applyConfig fills every option that was not set on the command line from
// the config file, if one is named by --config or the environment.
func applyConfig(opt *options, flags *pflag.FlagSet) error {
	path := opt.configPath
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	if path == "" {
		return nil
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}

	if !flags.Changed("workers") && cfg.Workers > 0 {
		opt.walk.Workers = cfg.Workers
	}

	if !flags.Changed("engine") && cfg.Engine != "" {
		opt.walk.Engine = cfg.Engine
	}

	if !flags.Changed("output") && cfg.Output != "" {
		opt.output = cfg.Output
	}

	if !flags.Changed("width") && cfg.Width > 0 {
		opt.width = cfg.Width
	}

	return nil
}
