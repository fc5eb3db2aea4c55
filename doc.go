// Package lenspost provides the building blocks of the lenspost command
// line tool: a small Lens API client, Grove storage uploads, text-only
// post metadata, wallet signing, and the publish pipeline that ties them
// together.
//
// # Packages
//
//   - pkg/shared: environments, wallet keys, and process configuration
//   - pkg/metadata: text-only post metadata construction and validation
//   - pkg/storage: immutable uploads and downloads via Grove
//   - pkg/lens: GraphQL client for accounts, login, posting, and indexing
//   - pkg/publish: the dry-run and publish pipeline used by the CLI
//
// # Usage
//
//	go install github.com/openclaw/lenspost-go/cmd/lenspost@latest
//	PRIVATE_KEY=0x... lenspost --content "hello" --publish
//
// Without --publish the tool prints a dry-run preview and performs no
// network calls.
package lenspost
