// Package services implements the [RemoteLibrary] interface for the cloud music library.
//
// # Cloud Implementation
//
// [CloudLibrary] talks to the library proxy over HTTP:
//   - GET  /api/library/songs?limit=N&continuation=T : one page of tracks plus the next continuation token
//   - POST /api/library/songs/ratings : {"tracks":[{"id":..., "rating":...}]} answered with {"updated": n}
//
// Requests are throttled with a [rate.Limiter]. When a token is configured the client is built from
// an [oauth2.StaticTokenSource] so every request carries a bearer header; otherwise the auth file path
// is forwarded in X-Auth-File for the proxy to resolve.
//
// # Snapshots
//
// [WriteSnapshot] saves a listing as JSON and [LoadSnapshot] serves it back as a read-only
// [SnapshotLibrary], which lets a dry run work offline.
//
// # Error Handling
//
//   - [shared.ErrServiceUnavailable] : the proxy could not be reached, or a snapshot was asked to write
//   - [shared.ErrAPIRequest] : non-2xx response, or a partial rating update
//   - [shared.ErrNotAuthenticated] : 401 or 403, wrapped around the [shared.ErrAPIRequest]
//   - [shared.ErrInvalidInput] : unreadable snapshot
package services
