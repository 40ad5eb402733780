// Package preflight provides readiness checks for the external tools and
// filesystem paths vidmux depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and refuses to serve when the work
//     directory is unusable or disk space is below the configured floor.
//   - The CLI "vidmux status" command renders individual check results so an
//     operator can see what is missing before filing a bug about a failed
//     conversion.
package preflight
