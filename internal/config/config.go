package config

import (
	"os"
	"os/user"
	"path/filepath"
	"time"
)

const appDirName = "studytel"

// Config is the root configuration shared by the CLI, daemon and menu bar app.
type Config struct {
	DataDir string        `yaml:"data_dir" env:"STUDYTEL_DATA_DIR"`
	DBPath  string        `yaml:"db_path"  env:"STUDYTEL_DB_PATH"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Heatmap HeatmapConfig `yaml:"heatmap"`
	UI      UIConfig      `yaml:"ui"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"  env:"STUDYTEL_LOG_MODE"  env-default:"dev"`
	Level string `yaml:"level" env:"STUDYTEL_LOG_LEVEL" env-default:"info"`
}

// ServerConfig holds the HTTP API settings used by studyteld.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"STUDYTEL_SERVER_ADDR"             env-default:"127.0.0.1:7433"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"STUDYTEL_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// HeatmapConfig holds the minimum card counts for activity levels 1-4.
type HeatmapConfig struct {
	Levels []int `yaml:"levels" env:"STUDYTEL_HEATMAP_LEVELS" env-separator:"," env-default:"1,4,10,20"`
}

type UIConfig struct {
	Theme string `yaml:"theme" env:"STUDYTEL_THEME" env-default:"default"`
}

// DefaultDataDir returns ~/.local/share/studytel.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		// launchd may start us without HOME
		u, userErr := user.Current()
		if userErr != nil {
			return "", err
		}
		home = u.HomeDir
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

// LogDir is where long-running processes write their log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}
