// Package file stores configuration in ~/.insightly/config.toml.
//
// Nested TOML tables are flattened to dotted keys ("service.base_url") on
// load and expanded again on save, so callers see a flat key space.
package file
