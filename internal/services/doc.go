// Package services provides the error taxonomy and context annotation shared
// by every vidmux component.
//
// Errors are classified with sentinel markers (wrapped via Wrap) so the
// transport layer can map failures to stable API codes and HTTP statuses
// without string matching. Context helpers carry the per-request correlation
// ID and current stage name for structured logging.
package services
