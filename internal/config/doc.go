// Package config loads revdiff settings.
//
// Settings live in a single TOML file:
//
//	[revisions]
//	marker_prefix = "revisions"
//	retention = 1
//	max_history = 1000
//
//	[revisions.classes]
//	insert = "revisions-insert"
//	attribute = "revisions-attribute"
//	remove = "revisions-remove"
//
//	[logging]
//	level = "info"   # debug, info, warn, error
//	format = "text"  # text, json
//
//	[styles.insert]
//	foreground = "#50C850"
//	background = "#1E3C1E"
//
// A missing file yields the defaults. Environment variables prefixed with
// REVDIFF_ override the file (see ApplyEnv).
//
// A Watcher reloads the file when it changes:
//
//	w := config.NewWatcher(path, config.WithWatchLogger(logger))
//	err := w.Run(ctx, func(cfg *config.Config, err error) { ... })
package config
