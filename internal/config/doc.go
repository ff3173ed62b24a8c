// Package config provides configuration management for the setvar CLI.
//
// This package handles loading and validating setvar's own configuration
// file. It is distinct from the shell startup files that setvar manages,
// which are never parsed as configuration.
//
// # Configuration File
//
// The default configuration file location is
// $XDG_CONFIG_HOME/setvar/config.yaml. The configuration file uses YAML
// format with the following structure:
//
//	version: 1
//	default_shells:
//	  - bash
//	  - zsh
//	backup:
//	  enabled: true
//	  dir: /custom/backups   # optional
//	  retention: 10
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// Every value can also be set through SETVAR_-prefixed environment
// variables, e.g. SETVAR_BACKUP_RETENTION=3.
package config
