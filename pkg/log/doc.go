// Package log provides a small wrapper around the Go standard library
// logger used across offerdeck.
//
// It adds:
//
//   - Named component loggers via ForComponent(name)
//   - An automatic message prefix: "[<name>]"
//   - Warn and Debug levels on top of Info and Error
//   - Debug output enabled globally (SetGlobalDebug) or selectively per
//     component (EnableDebugFor / DisableDebugFor)
//   - A central output writer (SetOutput) that updates existing loggers,
//     handy for capturing output in tests
//
// Structured logging, sampling and rotation are intentionally out of scope.
//
// Usage:
//
//	l := log.ForComponent("fetcher")
//	l.Infof("applied page %d (%d rows)", page, n)
//	l.Debugf("query: %s", q.Encode()) // only prints when debug is enabled
//
// NOTE: the package name collides with the stdlib "log". When both are
// imported, alias one of them.
package log
