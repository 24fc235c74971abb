package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"alcyxob/fitness-routines/internal/client"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	defaultServer = "http://localhost:8080"
	envServer     = "FITCTL_SERVER"
	envToken      = "FITCTL_TOKEN"
)

// cliConfig is what fitctl keeps between runs.
type cliConfig struct {
	Server string `toml:"server"`
	Token  string `toml:"token"`
}

type commandContext struct {
	serverFlag *string
	configFlag *string

	configOnce sync.Once
	config     *cliConfig
	configErr  error
}

func newCommandContext(serverFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) configPath() (string, error) {
	if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
		return strings.TrimSpace(*c.configFlag), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fitctl", "config.toml"), nil
}

// ensureConfig reads the config file, then lets the environment and the
// --server flag override it.
func (c *commandContext) ensureConfig() (*cliConfig, error) {
	c.configOnce.Do(func() {
		_ = godotenv.Load()

		cfg := &cliConfig{}
		path, err := c.configPath()
		if err != nil {
			c.configErr = err
			return
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.configErr = fmt.Errorf("read config %s: %w", path, err)
			return
		}

		if v := strings.TrimSpace(os.Getenv(envServer)); v != "" {
			cfg.Server = v
		}
		if v := strings.TrimSpace(os.Getenv(envToken)); v != "" {
			cfg.Token = v
		}
		if c.serverFlag != nil && strings.TrimSpace(*c.serverFlag) != "" {
			cfg.Server = strings.TrimSpace(*c.serverFlag)
		}
		if cfg.Server == "" {
			cfg.Server = defaultServer
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) saveConfig(cfg *cliConfig) error {
	path, err := c.configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// apiClient returns a client for commands that need a signed-in user.
func (c *commandContext) apiClient() (*client.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, errors.New("not logged in: run `fitctl login` first")
	}
	return client.NewClient(cfg.Server, cfg.Token), nil
}
