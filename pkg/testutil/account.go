package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-sdk-go/pkg/code/common"
)

// NewRandomAccount returns a new account with a random private key
func NewRandomAccount(t *testing.T) *common.Account {
	account, err := common.NewRandomAccount()
	require.NoError(t, err)

	return account
}
