package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// CombineOrderHashes XORs the order hashes together. The result does not
// depend on the order of hashes.
func CombineOrderHashes(hashes [][]byte) (common.Hash, error) {
	var combined common.Hash
	if len(hashes) == 0 {
		return combined, ErrEmptyRing
	}

	for i, h := range hashes {
		if len(h) != common.HashLength {
			return common.Hash{}, errors.Wrapf(ErrLengthMismatch, "order hash %d has %d bytes", i, len(h))
		}
		for j := range combined {
			combined[j] ^= h[j]
		}
	}
	return combined, nil
}

// RingHash computes keccak256(combinedHash ++ feeRecipient ++ feeSelection) using
// the packed encoding bytes32, address, uint16.
func RingHash(hashes [][]byte, feeRecipient common.Address, feeSelection uint16) (common.Hash, error) {
	combined, err := CombineOrderHashes(hashes)
	if err != nil {
		return common.Hash{}, err
	}

	var mask [2]byte
	binary.BigEndian.PutUint16(mask[:], feeSelection)

	return crypto.Keccak256Hash(combined.Bytes(), feeRecipient.Bytes(), mask[:]), nil
}

// HashRing encodes the fee selection flags and computes the ring hash. A nil
// flags slice selects 0 for every order.
func HashRing(hashes [][]byte, feeRecipient common.Address, flags []int) (common.Hash, error) {
	if flags == nil {
		flags = make([]int, len(hashes))
	}
	if len(flags) != len(hashes) {
		return common.Hash{}, errors.Wrapf(ErrLengthMismatch, "%d fee selections for %d orders", len(flags), len(hashes))
	}

	mask, err := EncodeFeeSelections(flags)
	if err != nil {
		return common.Hash{}, err
	}
	return RingHash(hashes, feeRecipient, mask)
}
