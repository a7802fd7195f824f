// Package config provides configuration structures and utilities for
// catacrawl: crawl and render settings, batch dispatch parameters, and
// the optional YAML file holding per-site CSS selector profiles.
package config
