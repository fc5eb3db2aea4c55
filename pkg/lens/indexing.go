package lens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Transaction states reported by the indexer.
const (
	StatePending  = "pending"
	StateFinished = "finished"
	StateFailed   = "failed"
)

// TransactionStatus is one observation of a transaction in the indexer.
type TransactionStatus struct {
	State  string
	Reason string
}

// WaitOptions tune how WaitForTransaction follows the indexer.
type WaitOptions struct {
	MaxAttempts int
	Interval    time.Duration
	Mode        ConnectionMode
}

const transactionStatusQuery = `query TransactionStatus($request: TransactionStatusRequest!) {
  transactionStatus(request: $request) {
    __typename
    ... on FailedTransactionStatus { reason }
  }
}`

type transactionStatusResponse struct {
	TransactionStatus struct {
		Typename string `json:"__typename"`
		Reason   string `json:"reason"`
	} `json:"transactionStatus"`
}

// TransactionStatus queries the indexer for one transaction.
func (c *Client) TransactionStatus(ctx context.Context, txHash string) (TransactionStatus, error) {
	hash := strings.TrimSpace(txHash)
	if hash == "" {
		return TransactionStatus{}, fmt.Errorf("transaction hash is required")
	}

	var response transactionStatusResponse
	err := c.execute(ctx, "transactionStatus", transactionStatusQuery, map[string]any{
		"request": map[string]any{"txHash": hash},
	}, &response)
	if err != nil {
		return TransactionStatus{}, err
	}

	return mapTransactionStatus(
		response.TransactionStatus.Typename,
		response.TransactionStatus.Reason,
	), nil
}

// WaitForTransaction blocks until the indexer reports the transaction
// processed. In websocket or auto mode it subscribes to status updates
// first and falls back to HTTP polling if the subscription fails.
func (c *Client) WaitForTransaction(
	ctx context.Context,
	txHash string,
	options WaitOptions,
) error {
	mode := options.Mode
	if mode == "" {
		mode = c.connectionMode
	}

	if mode == ConnectionModeWebSocket || mode == ConnectionModeAuto {
		err := c.waitForTransactionWebSocket(ctx, txHash)
		if err == nil {
			return nil
		}
		var failure *transactionFailedError
		if errors.As(err, &failure) {
			return err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		c.logger.Debug().Err(err).Msg("websocket wait failed, falling back to polling")
	}

	return c.pollForTransaction(ctx, txHash, options)
}

func (c *Client) pollForTransaction(
	ctx context.Context,
	txHash string,
	options WaitOptions,
) error {
	maxAttempts := options.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	interval := options.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		status, err := c.TransactionStatus(ctx, txHash)
		if err != nil {
			if isRetryableWaitError(err) && attempt < maxAttempts-1 {
				if delayErr := c.delay(ctx, interval); delayErr != nil {
					return delayErr
				}
				continue
			}
			return err
		}

		switch status.State {
		case StateFinished:
			return nil
		case StateFailed:
			return &transactionFailedError{TxHash: txHash, Reason: status.Reason}
		}

		if err := c.delay(ctx, interval); err != nil {
			return err
		}
	}

	return fmt.Errorf("transaction was not indexed within %d attempts", maxAttempts)
}

type transactionFailedError struct {
	TxHash string
	Reason string
}

func (e *transactionFailedError) Error() string {
	if strings.TrimSpace(e.Reason) == "" {
		return fmt.Sprintf("transaction %s failed to index", e.TxHash)
	}
	return fmt.Sprintf("transaction %s failed to index: %s", e.TxHash, e.Reason)
}

func mapTransactionStatus(typename string, reason string) TransactionStatus {
	switch typename {
	case "FinishedTransactionStatus":
		return TransactionStatus{State: StateFinished}
	case "FailedTransactionStatus":
		failureReason := strings.TrimSpace(reason)
		if failureReason == "" {
			failureReason = "transaction failed"
		}
		return TransactionStatus{State: StateFailed, Reason: failureReason}
	default:
		return TransactionStatus{State: StatePending}
	}
}

func isRetryableWaitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "timed out") ||
		strings.Contains(lower, "temporarily unavailable") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "broken pipe") ||
		strings.Contains(lower, "eof")
}
