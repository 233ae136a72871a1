// Package tasks orchestrates a rating sync between a local library and a remote library.
//
// # Core Operations
//
//  1. [Collect] : the batch driver
//     - Skips local tracks with rating 0
//     - Reconciles every rated track with a [matching.Reconciler]
//     - Returns a [Batch] holding each updated remote track once, in local order
//
//  2. [Engine.Run] : a full run
//     - Reads and normalizes records from a [LocalSource]; bad records follow [InvalidPolicy]
//     - Loads the remote library in one call
//     - Collects the batch, then calls UpdateTracks once unless [RunConfig].DryRun is set
//     - Records applied and failed runs through an optional [RunRecorder]
//
// # Progress Reporting
//
// [ProgressUpdate] values are sent with select/default so reporting never blocks a run.
// Interactive runs send none.
//
// # Errors
//
// A rejected batch surfaces as [*RemoteUpdateError], which matches [shared.ErrRemoteUpdate];
// the result's Applied flag stays false and no change is written to history.
package tasks
