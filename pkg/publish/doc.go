// Package publish orchestrates one lenspost run: it validates the run
// configuration, short-circuits into a preview in dry-run mode, and in
// publish mode drives the pipeline of account discovery, login, metadata
// upload, post submission, broadcast, and indexing wait strictly in
// sequence.
//
// Remote failures abort the run immediately, with one exception: a
// broadcast transaction whose indexing confirmation fails is reported as
// a soft failure so the transaction hash stays visible for manual
// follow-up.
package publish
