// Package download wraps the yt-dlp binary as the remote acquisition
// capability.
//
// The client never inspects what the tool produced; it reports only whether
// the invocation succeeded. Output files land under the caller's uuid-tagged
// template and are discovered by the pipeline's artifact selector, which
// keeps this package free of filesystem policy.
package download
