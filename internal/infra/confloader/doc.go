// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that supports
// multiple sources using koanf as the underlying library.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (NSKV_ prefix, "__" between levels)
//  3. Configuration file (YAML)
//  4. Default values (pre-populated target struct)
//
// Watcher notifies callbacks when the configuration file changes so
// that reloadable settings can be applied without a restart.
package confloader
