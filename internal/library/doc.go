// Package library reads raw track records from local music libraries.
//
// Two sources exist, one per normalizer adapter:
//   - [AmarokSource] : rows from an Amarok collection database (ratings 0-10)
//   - [TagSource] : tag dictionaries from audio files under a directory (FMPS ratings 0.0-1.0)
//
// Both return [normalize.Record] values; nothing here decides whether a record is valid.
package library
