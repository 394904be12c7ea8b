// Package config resolves application configuration from built-in
// defaults, an optional YAML file, and SNAP_-prefixed environment
// variables, in that order of precedence. The resolved configuration is
// validated once at startup; the rest of the application treats it as
// immutable.
package config
