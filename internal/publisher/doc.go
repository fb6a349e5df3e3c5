// Package publisher drives a single publish run against the publishing
// service: it opens an edit, uploads the binary, attaches the release to a
// track and commits. A failure after the edit is open deletes the edit again
// before the error is returned.
//
// The remote service is reached only through the Service interface, so the
// sequence and its rollback path can be exercised without the network.
package publisher
