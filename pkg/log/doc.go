// Package log provides a small wrapper around the Go standard library logger
// used across listry's components (filter registry, storage, api, realtime).
//
// Key features:
//
//   - Per component loggers via ForService(name)
//   - Automatic prefix in every line: `[name>]` (example: `[filters>] duplicate name rejected`)
//   - Convenience level helpers: Infof, Warnf, Errorf, Debugf
//   - Debug logging can be enabled globally (SetGlobalDebug) or per component
//     (EnableDebugFor / DisableDebugFor)
//   - Central output writer (SetOutput) that updates existing loggers
//
// Non-goals (for now):
//
//   - Structured / JSON logging
//   - Log sampling, rotation, or asynchronous buffering
//
// Tests can redirect output by calling SetOutput with a bytes.Buffer, enabling
// assertions on log contents; the filter registry tests use this to verify
// that registration conflicts emit a developer-facing warning.
package log
