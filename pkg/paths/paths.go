package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for windeploy
	EnvConfigDir = "WINDEPLOY_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for windeploy
	EnvStateDir = "WINDEPLOY_STATE_DIR"
)

const (
	// AppDirName is the directory name for windeploy-specific files
	AppDirName = "windeploy"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "windeploy.log"
)

// Paths provides the on-disk locations windeploy uses
type Paths interface {
	ConfigDir() string
	ConfigFile() string
	StateDir() string
	LogFilePath() string
}

type paths struct {
	configDir string
	stateDir  string
}

// New resolves the windeploy directories from the environment
func New() Paths {
	p := &paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = dir
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	// xdg caches its values at init; read XDG_STATE_HOME ourselves so a
	// changed environment is picked up
	switch {
	case os.Getenv(EnvStateDir) != "":
		p.stateDir = os.Getenv(EnvStateDir)
	case os.Getenv("XDG_STATE_HOME") != "":
		p.stateDir = filepath.Join(os.Getenv("XDG_STATE_HOME"), AppDirName)
	default:
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p
}

func (p *paths) ConfigDir() string { return p.configDir }

func (p *paths) ConfigFile() string { return filepath.Join(p.configDir, ConfigFileName) }

func (p *paths) StateDir() string { return p.stateDir }

func (p *paths) LogFilePath() string { return filepath.Join(p.stateDir, LogFileName) }
