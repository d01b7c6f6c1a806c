package chain

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const (
	testOwner     = "0x5fa9A9A0d5d7a4D3a0A6b2CEf64dC9E0a0b1aC7F"
	testTokenS    = "0xEF68e7C694F40c8202821eDF525dE3782458639f"
	testTokenB    = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	testFeeToken  = "0xBBbbCA6A901c926F240b89EacB641d8Aec7AEafD"
	testWallet    = "0xb94065482Ad64d4c2b9252358D746B39e820A582"
	testRecipient = "0x8d12A197cB00D4747a1fe03395095ce2A5CC6819"
)

func newTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func newTestSigner(t *testing.T) *PrivateKeySigner {
	t.Helper()
	signer, err := NewPrivateKeySigner(crypto.FromECDSA(newTestKey(t)))
	require.NoError(t, err)
	t.Cleanup(signer.Close)
	return signer
}

func testOrderData(owner string) *OrderData {
	return &OrderData{
		Owner:                 owner,
		TokenS:                testTokenS,
		TokenB:                testTokenB,
		AmountS:               "1000000000000000000000",
		AmountB:               "0x0de0b6b3a7640000",
		ValidSince:            "0x5b038122",
		ValidUntil:            "1527000000",
		AllOrNone:             false,
		TokenRecipient:        testRecipient,
		WalletSplitPercentage: 20,
		FeeToken:              testFeeToken,
		FeeAmount:             "1000000000000000000",
		FeePercentage:         0,
		TokenSFeePercentage:   5,
		TokenBFeePercentage:   10,
	}
}
