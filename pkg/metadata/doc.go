// Package metadata builds and validates Lens post metadata objects. Only
// the text-only content focus is supported: a post is a content string
// plus a locale, identified by a generated UUID, serialized against the
// published text-only JSON schema.
package metadata
