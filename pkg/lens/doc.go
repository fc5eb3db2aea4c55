// Package lens is a client for the Lens social protocol API. It covers
// the operations lenspost needs for one publishing run: discovering the
// accounts a wallet owns or manages, challenge/response login as account
// owner, post creation through the authenticated session, self-funded
// transaction broadcast, and waiting for the protocol indexer to confirm
// a transaction.
//
// The API speaks GraphQL over HTTP. Transaction status can additionally
// be followed over a websocket subscription; the waiter falls back to
// HTTP polling whenever the subscription is unavailable.
//
// # Getting Started
//
// Create a client for an environment and log in:
//
//	client, err := lens.NewClient(lens.Config{
//		Environment: environment,
//		Origin:      "https://openclaw.local",
//	})
//
//	session, err := client.Login(ctx, lens.LoginRequest{
//		Account: accountAddress,
//		Owner:   wallet.Address().Hex(),
//	}, wallet.SignMessage)
//
// This package is part of the lenspost toolkit for the Lens social
// protocol.
package lens
