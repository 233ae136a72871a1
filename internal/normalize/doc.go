// Package normalize is the single entry point from local library formats to [models.CanonicalTrack].
//
// Two adapters implement [Record]:
//   - [RowRecord] : a database row in the fixed column order title, trackNumber, album, artist, year, rawRating
//   - [TagRecord] : an audio file's tag dictionary (title, album, artist, tracknumber, year/date, rating/fmps_rating)
//
// Ratings are converted with a [Scale] so that every caller downstream only sees 0-5.
// Failures are returned as [*Error], which matches [shared.ErrNormalization] with errors.Is.
package normalize
