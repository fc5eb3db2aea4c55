// Package shared provides the building blocks common to every lenspost
// package: the environment registry mapping mainnet/testnet to the Lens
// API, chain, and storage endpoints, the wallet identity derived from a
// hex private key, and environment/.env based configuration loading.
//
// The private key is held in process memory only. It is never persisted
// and never written to any output.
//
// This package is part of the lenspost toolkit for the Lens social
// protocol.
package shared
