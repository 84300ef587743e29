// Package stash provides a small content store: single-file uploads written
// beneath one storage root, served back by path, deleted on request, and
// rendered as a paste view when the content is text.
//
// # Key Components
//
//   - Service: runs upload, get, delete and paste on top of a FileStorage
//   - FileStorage: interface for object persistence (see the filesystem package)
//   - ResolvePath: maps an optional directory and a file name to an ObjectPath
//   - Ingest: reads an upload chunk by chunk and enforces the size cap
//   - TokenVerifier: bearer token check used for uploads (see keybackend)
//
// # Paths
//
// A logical path is a directory ("/" or a single segment "/seg/") followed by
// the uploaded file name, for example "/docs/x.txt". Storage keys are the same
// path without the leading slash and must pass IsValidPath, which keeps every
// key beneath the storage root.
//
// # Example Usage
//
//	service, err := stash.NewService(storage, stash.ServiceConfig{
//	    MaxUploadBytes: stash.DefaultMaxUploadBytes,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dir := "docs"
//	result, err := service.Upload(ctx, stash.UploadObject{
//	    Directory: &dir,
//	    Filename:  "x.txt",
//	}, reader)
//
//	obj, err := service.Get(ctx, "docs/x.txt")
//
// See the http package for the REST API and the filesystem package for the
// storage backend.
package stash
