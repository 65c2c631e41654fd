// Package config loads binmorph run configuration from JSON. Every field is
// optional; Get* accessors supply defaults for anything left unset.
package config
