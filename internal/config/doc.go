// Package config loads the optional tool configuration file.
//
// Files ending in .toml are decoded with BurntSushi/toml, .yaml and .yml with
// yaml.v3. Command-line flags take precedence over anything read here.
package config
