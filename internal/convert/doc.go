// Package convert implements the stateless one-shot transformations for
// local files: audio re-encoding through ffmpeg, image format and size
// changes in-process, and document conversion via a headless LibreOffice.
package convert
