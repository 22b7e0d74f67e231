// Package file provides the TOML configuration store.
//
// The file lives at <dir>/config.toml, by default ~/.vecsync/config.toml.
// Tables are flattened into dot keys on load and nested again on save.
package file
