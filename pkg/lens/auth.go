package lens

import (
	"context"
	"fmt"
	"strings"
)

// LoginRequest binds the account being logged into, the owner wallet, and
// optionally the app the session is scoped to.
type LoginRequest struct {
	Account string
	Owner   string
	App     string
}

// Session holds the tokens returned by a successful login. It is valid
// for the remainder of one run and never persisted.
type Session struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
}

// Signer produces a signature for a challenge message on behalf of the
// wallet identity.
type Signer func(message string) (string, error)

const challengeMutation = `mutation Challenge($request: ChallengeRequest!) {
  challenge(request: $request) { id text }
}`

const authenticateMutation = `mutation Authenticate($request: SignedAuthChallenge!) {
  authenticate(request: $request) {
    __typename
    ... on AuthenticationTokens { accessToken refreshToken idToken }
    ... on WrongSignerError { reason }
    ... on ExpiredChallengeError { reason }
  }
}`

type challengeResponse struct {
	Challenge struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"challenge"`
}

type authenticateResponse struct {
	Authenticate struct {
		Typename     string `json:"__typename"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		IDToken      string `json:"idToken"`
		Reason       string `json:"reason"`
	} `json:"authenticate"`
}

// Login performs challenge/response authentication as account owner. The
// challenge text is signed by the provided signer; on success the access
// token is installed on the client for subsequent operations.
func (c *Client) Login(ctx context.Context, request LoginRequest, sign Signer) (Session, error) {
	if strings.TrimSpace(request.Account) == "" {
		return Session{}, fmt.Errorf("account address is required")
	}
	if strings.TrimSpace(request.Owner) == "" {
		return Session{}, fmt.Errorf("owner address is required")
	}
	if sign == nil {
		return Session{}, fmt.Errorf("signer is required")
	}

	accountOwner := map[string]any{
		"account": strings.TrimSpace(request.Account),
		"owner":   strings.TrimSpace(request.Owner),
	}
	if app := strings.TrimSpace(request.App); app != "" {
		accountOwner["app"] = app
	}

	var challenge challengeResponse
	err := c.execute(ctx, "challenge", challengeMutation, map[string]any{
		"request": map[string]any{"accountOwner": accountOwner},
	}, &challenge)
	if err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(challenge.Challenge.ID) == "" ||
		strings.TrimSpace(challenge.Challenge.Text) == "" {
		return Session{}, &ParseError{
			Operation: "challenge",
			Message:   "challenge response is missing id or text",
		}
	}

	signature, err := sign(challenge.Challenge.Text)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign login challenge: %w", err)
	}

	var authenticated authenticateResponse
	err = c.execute(ctx, "authenticate", authenticateMutation, map[string]any{
		"request": map[string]any{
			"id":        challenge.Challenge.ID,
			"signature": signature,
		},
	}, &authenticated)
	if err != nil {
		return Session{}, err
	}

	result := authenticated.Authenticate
	if result.Typename != "" && result.Typename != "AuthenticationTokens" {
		reason := strings.TrimSpace(result.Reason)
		if reason == "" {
			reason = result.Typename
		}
		return Session{}, &APIError{Operation: "authenticate", Message: reason}
	}
	if strings.TrimSpace(result.AccessToken) == "" {
		return Session{}, &ParseError{
			Operation: "authenticate",
			Message:   "authenticate response did not include an access token",
		}
	}

	session := Session{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		IDToken:      result.IDToken,
	}
	c.SetAccessToken(session.AccessToken)
	return session, nil
}
