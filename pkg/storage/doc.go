// Package storage is a client for the Grove content storage service used
// by the Lens protocol. Uploads are immutable and keyed by the target
// chain id; the service answers with a lens:// content URI that posts can
// reference on chain. Downloads resolve lens:// URIs back to raw bytes,
// transparently decompressing brotli-encoded responses.
package storage
