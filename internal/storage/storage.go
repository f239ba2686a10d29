// Package storage provides flat-file persistence for documents. Two
// backends implement the same contract: the local filesystem and an
// S3-compatible object store.
package storage

import "context"

// FileStorage is the contract the redaction core uses to resolve document
// handles into bytes and to persist outputs.
type FileStorage interface {
	Exists(ctx context.Context, path string) bool
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, content []byte) error
	Delete(ctx context.Context, path string) error
}
