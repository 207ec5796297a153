// Package storage provides the object storage client used as an optional
// migration source.
//
// One-time migrations normally read player JSON files from a local directory,
// but archived universes often live in an S3-compatible bucket. This package
// wraps the Minio client behind a small interface so the migration runners
// can list and fetch those archives without caring where they live, and so
// tests can substitute the mock client.
package storage
