package loopring

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaifufi/loopring-sdk-go/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTokenS   = "0xEF68e7C694F40c8202821eDF525dE3782458639f"
	testTokenB   = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	testFeeToken = "0xBBbbCA6A901c926F240b89EacB641d8Aec7AEafD"
)

func newTestSigner(t *testing.T) *chain.PrivateKeySigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer, err := chain.NewPrivateKeySigner(crypto.FromECDSA(key))
	require.NoError(t, err)
	t.Cleanup(signer.Close)
	return signer
}

func newTestClient(t *testing.T, feeRecipient string) (*Client, *chain.PrivateKeySigner) {
	t.Helper()
	signer := newTestSigner(t)
	client, err := NewClient(ClientConfig{FeeRecipient: feeRecipient}, signer)
	require.NoError(t, err)
	return client, signer
}

func orderData(owner common.Address, tokenS, tokenB string) *chain.OrderData {
	return &chain.OrderData{
		Owner:               owner.Hex(),
		TokenS:              tokenS,
		TokenB:              tokenB,
		AmountS:             "1000000000000000000",
		AmountB:             "2000000000000000000",
		ValidSince:          "1527000000",
		TokenRecipient:      owner.Hex(),
		FeeToken:            testFeeToken,
		FeeAmount:           "10000000000000000",
		TokenSFeePercentage: 5,
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := NewClient(ClientConfig{}, nil)
	require.ErrorIs(t, err, ErrSignerRequired)

	client, signer := newTestClient(t, "")
	assert.Equal(t, signer.Address(), client.Address())
	assert.Equal(t, signer.Address(), client.FeeRecipient())

	client, _ = newTestClient(t, testFeeToken)
	assert.Equal(t, common.HexToAddress(testFeeToken), client.FeeRecipient())

	_, err = NewClient(ClientConfig{FeeRecipient: "not-an-address"}, signer)
	require.ErrorIs(t, err, ErrInvalidParam)
}

func TestClientSignOrder(t *testing.T) {
	t.Parallel()

	client, signer := newTestClient(t, "")
	data := orderData(signer.Address(), testTokenS, testTokenB)

	so, err := client.SignOrder(data)
	require.NoError(t, err)

	hash, err := client.OrderHash(data)
	require.NoError(t, err)
	assert.Equal(t, hash, so.Hash)
	require.NoError(t, client.VerifyOrder(so))

	_, err = client.SignOrder(orderData(common.HexToAddress(testFeeToken), testTokenS, testTokenB))
	require.ErrorIs(t, err, ErrInvalidParam)

	bad := orderData(signer.Address(), testTokenS, testTokenB)
	bad.AmountS = "-5"
	_, err = client.SignOrder(bad)
	require.ErrorIs(t, err, ErrInvalidParam)
	require.ErrorIs(t, err, chain.ErrSchemaMismatch)

	_, err = client.OrderHash(bad)
	require.ErrorIs(t, err, chain.ErrSchemaMismatch)

	so.Signature = nil
	require.ErrorIs(t, client.VerifyOrder(so), chain.ErrInvalidSignature)
}

func TestClientRingFlow(t *testing.T) {
	t.Parallel()

	miner, _ := newTestClient(t, "")
	alice, aliceSigner := newTestClient(t, "")
	bob, bobSigner := newTestClient(t, "")
	auth := newTestSigner(t)

	aliceData := orderData(aliceSigner.Address(), testTokenS, testTokenB)
	aliceData.DualAuthAddr = auth.Address().Hex()
	aliceOrder, err := alice.SignOrder(aliceData)
	require.NoError(t, err)
	bobOrder, err := bob.SignOrder(orderData(bobSigner.Address(), testTokenB, testTokenS))
	require.NoError(t, err)

	ring, err := miner.NewRing([]*chain.SignedOrder{aliceOrder, bobOrder}, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, miner.FeeRecipient(), ring.FeeRecipient)

	hash, err := miner.RingHash(ring)
	require.NoError(t, err)
	want, err := chain.HashRing([][]byte{aliceOrder.Hash.Bytes(), bobOrder.Hash.Bytes()}, miner.Address(), []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, want, hash)

	signed, err := miner.SignRing(ring)
	require.NoError(t, err)
	assert.Equal(t, hash, signed.Hash)

	require.ErrorIs(t, miner.VerifyRing(signed), chain.ErrInvalidSignature)
	require.Error(t, miner.AuthorizeRing(signed))
	require.NoError(t, miner.AuthorizeRing(signed, auth))
	require.NoError(t, miner.VerifyRing(signed))

	submission, err := NewRingSubmission(signed)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), submission.FeeSelections)
	assert.Equal(t, hash.Hex(), submission.Hash)
	assert.Equal(t, miner.Address().Hex(), submission.Miner)
	require.Len(t, submission.Orders, 2)
	assert.Equal(t, aliceOrder.Hash.Hex(), submission.Orders[0].Hash)
	assert.Equal(t, auth.Address().Hex(), submission.Orders[0].DualAuthAddr)
	require.NotNil(t, submission.AuthSignatures[0])
	assert.Nil(t, submission.AuthSignatures[1])

	raw, err := json.Marshal(submission)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, hash.Hex(), decoded["ringHash"])
	assert.EqualValues(t, 1, decoded["feeSelections"])
}

func TestClientNewRingErrors(t *testing.T) {
	t.Parallel()

	client, signer := newTestClient(t, "")
	so, err := client.SignOrder(orderData(signer.Address(), testTokenS, testTokenB))
	require.NoError(t, err)

	_, err = client.NewRing(nil, nil)
	require.ErrorIs(t, err, ErrInvalidParam)
	require.ErrorIs(t, err, chain.ErrEmptyRing)

	tooMany := make([]*chain.SignedOrder, chain.MaxRingOrders+1)
	for i := range tooMany {
		tooMany[i] = so
	}
	_, err = client.NewRing(tooMany, nil)
	require.ErrorIs(t, err, chain.ErrOverflow)

	_, err = client.NewRing([]*chain.SignedOrder{so}, []int{0, 1})
	require.ErrorIs(t, err, chain.ErrLengthMismatch)

	forged := &chain.SignedOrder{Order: so.Order, Hash: so.Hash, Signature: &chain.Signature{V: 27, R: so.Signature.R, S: so.Signature.S}}
	if forged.Signature.V == so.Signature.V {
		forged.Signature.V = 28
	}
	_, err = client.NewRing([]*chain.SignedOrder{forged}, nil)
	require.ErrorIs(t, err, ErrInvalidParam)

	ring, err := client.NewRing([]*chain.SignedOrder{so}, []int{2})
	require.NoError(t, err)
	_, err = client.RingHash(ring)
	require.ErrorIs(t, err, chain.ErrFlagOutOfRange)
	_, err = client.SignRing(ring)
	require.ErrorIs(t, err, ErrInvalidParam)
}
