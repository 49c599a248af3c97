// Package config provides the ucma configuration file, its defaults and
// validation. It names the plugin and stage configuration for each
// capability and the batch-level settings: concurrency, the plugin listing
// file, run history and metrics output.
package config
