package lens

import (
	"context"
	"fmt"
	"strings"
)

// Account is a protocol identity owned or managed by a wallet.
type Account struct {
	Address  string
	Username string
}

const accountsAvailableQuery = `query AccountsAvailable($managedBy: EvmAddress!) {
  accountsAvailable(request: { managedBy: $managedBy, includeOwned: true }) {
    items {
      ... on AccountManaged { account { address username { value } } }
      ... on AccountOwned { account { address username { value } } }
    }
  }
}`

type accountsAvailableResponse struct {
	AccountsAvailable struct {
		Items []struct {
			Account struct {
				Address  string `json:"address"`
				Username *struct {
					Value string `json:"value"`
				} `json:"username"`
			} `json:"account"`
		} `json:"items"`
	} `json:"accountsAvailable"`
}

// AccountsAvailable queries accounts where the wallet is owner or manager.
// The API's ordering is preserved.
func (c *Client) AccountsAvailable(ctx context.Context, managedBy string) ([]Account, error) {
	wallet := strings.TrimSpace(managedBy)
	if wallet == "" {
		return nil, fmt.Errorf("wallet address is required")
	}

	var response accountsAvailableResponse
	err := c.execute(ctx, "accountsAvailable", accountsAvailableQuery, map[string]any{
		"managedBy": wallet,
	}, &response)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(response.AccountsAvailable.Items))
	for _, item := range response.AccountsAvailable.Items {
		account := Account{Address: strings.TrimSpace(item.Account.Address)}
		if item.Account.Username != nil {
			account.Username = strings.TrimSpace(item.Account.Username.Value)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
