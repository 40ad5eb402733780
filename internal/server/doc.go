// Package server exposes the conversion surface over HTTP: a JSON endpoint
// that drives the remote video pipeline and multipart endpoints for the
// one-shot local conversions, plus health and metrics routes.
package server
