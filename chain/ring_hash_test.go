package chain

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomHashes(rng *rand.Rand, n int) [][]byte {
	hashes := make([][]byte, n)
	for i := range hashes {
		hashes[i] = make([]byte, common.HashLength)
		rng.Read(hashes[i])
	}
	return hashes
}

func TestRingHashSingleOrder(t *testing.T) {
	t.Parallel()

	h := crypto.Keccak256([]byte("order"))
	recipient := common.HexToAddress(testRecipient)

	got, err := RingHash([][]byte{h}, recipient, 0)
	require.NoError(t, err)
	want := crypto.Keccak256Hash(h, recipient.Bytes(), []byte{0x00, 0x00})
	assert.Equal(t, want, got)

	got, err = HashRing([][]byte{h}, recipient, []int{1})
	require.NoError(t, err)
	want = crypto.Keccak256Hash(h, recipient.Bytes(), []byte{0x00, 0x01})
	assert.Equal(t, want, got)
}

func TestRingHashPreimageLayout(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	hashes := randomHashes(rng, 3)
	recipient := common.HexToAddress(testRecipient)

	combined, err := CombineOrderHashes(hashes)
	require.NoError(t, err)
	for i := range combined {
		assert.Equal(t, hashes[0][i]^hashes[1][i]^hashes[2][i], combined[i])
	}

	preimage := append(append(combined.Bytes(), recipient.Bytes()...), 0x01, 0x02)
	require.Len(t, preimage, 54)

	got, err := RingHash(hashes, recipient, 0x0102)
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash(preimage), got)
}

func TestCombineOrderHashesPermutation(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for n := 1; n <= MaxRingOrders; n++ {
		hashes := randomHashes(rng, n)
		want, err := CombineOrderHashes(hashes)
		require.NoError(t, err)

		shuffled := append([][]byte(nil), hashes...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, err := CombineOrderHashes(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got, "n=%d", n)
	}
}

func TestRingHashMaskSensitivity(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	hashes := randomHashes(rng, 4)
	recipient := common.HexToAddress(testRecipient)

	seen := make(map[common.Hash]uint16)
	for mask := uint16(0); mask < 16; mask++ {
		h, err := RingHash(hashes, recipient, mask)
		require.NoError(t, err)
		prev, dup := seen[h]
		require.False(t, dup, "mask %d collides with %d", mask, prev)
		seen[h] = mask
	}

	withOther, err := RingHash(hashes, common.HexToAddress(testWallet), 0)
	require.NoError(t, err)
	_, dup := seen[withOther]
	assert.False(t, dup)
}

func TestRingHashErrors(t *testing.T) {
	t.Parallel()

	recipient := common.HexToAddress(testRecipient)

	_, err := RingHash(nil, recipient, 0)
	require.ErrorIs(t, err, ErrEmptyRing)

	_, err = HashRing([][]byte{}, recipient, nil)
	require.ErrorIs(t, err, ErrEmptyRing)

	_, err = RingHash([][]byte{make([]byte, 32), make([]byte, 31)}, recipient, 0)
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = HashRing([][]byte{make([]byte, 32)}, recipient, []int{0, 1})
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = HashRing([][]byte{make([]byte, 32)}, recipient, []int{3})
	require.ErrorIs(t, err, ErrFlagOutOfRange)

	_, err = HashRing(make([][]byte, 17), recipient, nil)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestHashRingNilFlags(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))
	hashes := randomHashes(rng, 3)
	recipient := common.HexToAddress(testRecipient)

	withNil, err := HashRing(hashes, recipient, nil)
	require.NoError(t, err)
	withZeros, err := HashRing(hashes, recipient, []int{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, withZeros, withNil)
}
