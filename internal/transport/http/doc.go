// Package http exposes the snapshot API over chi: batch uploads,
// stored-table inspection and report finalization. Handlers are thin
// adapters around the services layer; every error surfaces as an
// RFC 7807 problem document via internal/errors.
package http
