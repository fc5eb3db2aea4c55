package lens

import (
	"context"
	"fmt"
	"strings"
)

// PostRequest carries the inputs of a post creation.
type PostRequest struct {
	ContentURI string
	Feed       string
}

// RawTransaction is a transaction request returned by the API that must
// be signed and submitted by the caller's wallet.
type RawTransaction struct {
	ChainID  int64  `json:"chainId"`
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	GasLimit string `json:"gasLimit"`
}

// PostOperation is the outcome of a post creation request: either a
// relayed transaction hash or a raw transaction to broadcast locally.
type PostOperation struct {
	Hash string
	Raw  *RawTransaction
}

const postMutation = `mutation Post($request: CreatePostRequest!) {
  post(request: $request) {
    __typename
    ... on PostResponse { hash }
    ... on SelfFundedTransactionRequest { raw { chainId to data value gasLimit } }
    ... on SponsoredTransactionRequest { raw { chainId to data value gasLimit } }
    ... on TransactionWillFail { reason }
  }
}`

type postResponse struct {
	Post struct {
		Typename string          `json:"__typename"`
		Hash     string          `json:"hash"`
		Reason   string          `json:"reason"`
		Raw      *RawTransaction `json:"raw"`
	} `json:"post"`
}

// CreatePost submits a post creation request through the authenticated
// session. Re-running with identical content creates a new post each
// time; the protocol performs no deduplication.
func (c *Client) CreatePost(ctx context.Context, request PostRequest) (PostOperation, error) {
	contentURI := strings.TrimSpace(request.ContentURI)
	if contentURI == "" {
		return PostOperation{}, fmt.Errorf("content URI is required")
	}
	if c.AccessToken() == "" {
		return PostOperation{}, fmt.Errorf("post creation requires an authenticated session")
	}

	createRequest := map[string]any{"contentUri": contentURI}
	if feed := strings.TrimSpace(request.Feed); feed != "" {
		createRequest["feed"] = feed
	}

	var response postResponse
	err := c.execute(ctx, "post", postMutation, map[string]any{
		"request": createRequest,
	}, &response)
	if err != nil {
		return PostOperation{}, err
	}

	result := response.Post
	switch result.Typename {
	case "PostResponse":
		if strings.TrimSpace(result.Hash) == "" {
			return PostOperation{}, &ParseError{
				Operation: "post",
				Message:   "post response did not include a transaction hash",
			}
		}
		return PostOperation{Hash: result.Hash}, nil
	case "SelfFundedTransactionRequest", "SponsoredTransactionRequest":
		if result.Raw == nil || strings.TrimSpace(result.Raw.To) == "" {
			return PostOperation{}, &ParseError{
				Operation: "post",
				Message:   "transaction request did not include raw transaction fields",
			}
		}
		raw := *result.Raw
		return PostOperation{Raw: &raw}, nil
	case "TransactionWillFail":
		reason := strings.TrimSpace(result.Reason)
		if reason == "" {
			reason = "transaction would fail"
		}
		return PostOperation{}, &APIError{Operation: "post", Message: reason}
	default:
		return PostOperation{}, &ParseError{
			Operation: "post",
			Message:   fmt.Sprintf("unexpected post result type %q", result.Typename),
		}
	}
}
