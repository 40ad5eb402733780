// Package pipeline implements the video acquisition and normalization state
// machine.
//
// One run moves through download, artifact selection, stream probing,
// conditional audio repair, conditional audio compatibility fixing, delivery
// planning, and execution. Two invariants hold throughout: at most one
// pipeline-owned artifact exists on disk at any step (every replacement
// deletes its predecessor), and no artifact survives a failure path. Each
// stage gets exactly one attempt; failures surface as classified sentinel
// errors from the services package.
//
// Concurrent runs never collide: every run tags its files with a fresh
// request identifier inside the shared work directory.
package pipeline
