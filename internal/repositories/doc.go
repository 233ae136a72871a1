// Package repositories implements SQLite persistence for sync run history.
//
// [RunRepository] stores one sync_runs row per non-dry run and one rating_updates row per remote
// rating the run pushed. The history is write-only from the sync's point of view: matching never
// consults it, so no match decision carries over between runs.
//
// Runs can be looked up by full id or by a unique id prefix, matching the shortened ids printed in logs.
package repositories
