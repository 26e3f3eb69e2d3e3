// Package watch turns filesystem changes into callbacks for the CLI: a
// config file watcher that triggers reloads and a spool directory watcher
// that reports files ready for delivery.
package watch
