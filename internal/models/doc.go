// Package models defines the records that flow through a rating sync.
//
//   - [CanonicalTrack] : a local track after normalization, with the rating on the 0-5 scale
//   - [RemoteTrack] : a cloud library record; only its Rating is ever written
//   - [MatchResult] : an ephemeral local/remote pairing with its agreement score
//   - [SyncRun] and [RatingChange] : audit history of applied runs
//
// Optional numbers (track number, year) are pointers; nil means the source had no value.
package models
