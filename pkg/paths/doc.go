// Package paths provides centralized path handling for windeploy.
//
// windeploy keeps very little on disk: a user configuration file and a log
// file. Both follow the XDG Base Directory specification through
// github.com/adrg/xdg, which maps to %APPDATA% / %LOCALAPPDATA% on Windows.
//
// # Environment Variables
//
//   - WINDEPLOY_CONFIG_DIR: Override the config directory (default: $XDG_CONFIG_HOME/windeploy)
//   - WINDEPLOY_STATE_DIR: Override the state directory (default: $XDG_STATE_HOME/windeploy)
//   - XDG_STATE_HOME: Honoured directly so tests can redirect the log file
package paths
