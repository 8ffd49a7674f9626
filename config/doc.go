// Package config loads partkb settings from YAML files.
//
// Settings are layered: built-in defaults, then the user file
// (~/.config/partkb/config.yaml), then the nearest project file (partkb.yaml
// in the working directory or a parent), then an explicit file. A later layer
// only replaces the keys it sets. Command-line flags are applied by the caller
// on top of the loaded Config.
package config
