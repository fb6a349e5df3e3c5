// Package release defines the domain model of a single publish run: the
// validated ReleaseRequest, the metadata of the binary being shipped, the
// release notes, the TrackRelease payload and the error kinds every other
// package reports failures with.
//
// A Request is built exactly once by NewRequest and exposes its fields only
// through accessors, so it cannot change after validation.
package release
