// Package ui implements the terminal side of a sync: confirmation prompts, a progress view, and tables.
//
// Two [matching.Confirmer] implementations exist:
//   - [TUIConfirmer] : a bubbletea program per ambiguous match, y/enter accepts, n rejects, q aborts the run
//   - [LinePrompt] : "Accept best match? [Y/n] " over any reader, for pipes and non-terminal stdin
//
// [RunWithProgress] follows a non-interactive run through the engine's progress channel, reading one
// update per message. Tables for candidates, local tracks, and run history are rendered with go-pretty.
package ui
