package storage

import "io"

// BlobStorage stores file content addressed by its digest. Writing the same
// digest twice is idempotent, which lets force-new documents share content.
type BlobStorage interface {
	Save(digest string, r io.Reader) (path string, err error)
	Open(path string) (io.ReadCloser, error)
	Delete(path string) error
}
