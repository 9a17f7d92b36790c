// Package logger owns the status-log side of the router: a severity-routing
// diagnostic logger (LoggingContext) built on zap, and the SystemLogBridge
// that restarts it at plugin init and replays buffered status lines.
//
// Severity files are named "<dir>/<session>.<SEVERITY>.<YYYYMMDD-HHMMSS>.<pid>"
// and a symlink "<dir>/<session>.<SEVERITY>" follows the newest one. An entry
// is written to the file of its own severity and every lower one, so the INFO
// file holds everything.
package logger
