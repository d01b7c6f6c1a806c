package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// OrderHashes returns the order hashes in ring position order
func (r *Ring) OrderHashes() [][]byte {
	hashes := make([][]byte, len(r.Orders))
	for i, so := range r.Orders {
		if so != nil {
			hashes[i] = so.Hash.Bytes()
		}
	}
	return hashes
}

// Hash computes the ring hash from the order hashes, fee recipient and fee selections
func (r *Ring) Hash() (common.Hash, error) {
	for i, so := range r.Orders {
		if so == nil {
			return common.Hash{}, errors.Wrapf(ErrLengthMismatch, "order %d is nil", i)
		}
		if so.Order == nil {
			return common.Hash{}, errors.Wrapf(ErrSchemaMismatch, "order %d has no order data", i)
		}
	}
	return HashRing(r.OrderHashes(), r.FeeRecipient, r.FeeSelections)
}

// Sign hashes the ring and signs it with the miner key
func (r *Ring) Sign(miner Signer) (*SignedRing, error) {
	hash, err := r.Hash()
	if err != nil {
		return nil, err
	}

	sig, err := miner.SignHash(hash)
	if err != nil {
		return nil, errors.WithMessage(err, "sign ring")
	}

	return &SignedRing{
		Ring:           r,
		Hash:           hash,
		Miner:          miner.Address(),
		Signature:      sig,
		AuthSignatures: make([]*Signature, len(r.Orders)),
	}, nil
}

// Authorize signs the ring hash on behalf of every order that names a dual-auth
// address. Each such address must be served by one of signers.
func (sr *SignedRing) Authorize(signers ...Signer) error {
	if sr == nil || sr.Ring == nil {
		return errors.Wrap(ErrEmptyRing, "nil signed ring")
	}

	bySigner := make(map[common.Address]Signer, len(signers))
	for _, s := range signers {
		if s != nil {
			bySigner[s.Address()] = s
		}
	}

	if len(sr.AuthSignatures) != len(sr.Ring.Orders) {
		sr.AuthSignatures = make([]*Signature, len(sr.Ring.Orders))
	}

	for i, so := range sr.Ring.Orders {
		if so == nil || so.Order == nil {
			return errors.Wrapf(ErrSchemaMismatch, "order %d has no order data", i)
		}
		authAddr := so.Order.DualAuthAddr
		if authAddr == (common.Address{}) {
			continue
		}
		signer, ok := bySigner[authAddr]
		if !ok {
			return errors.Errorf("no signer for dual-auth address %s of order %s", authAddr.Hex(), so.Hash.Hex())
		}
		sig, err := signer.SignHash(sr.Hash)
		if err != nil {
			return errors.WithMessagef(err, "authorize order %d", i)
		}
		sr.AuthSignatures[i] = sig
	}
	return nil
}

// VerifyRing checks the ring hash, the miner signature, every order signature
// and the dual-auth signatures present.
func VerifyRing(sr *SignedRing) error {
	if sr == nil || sr.Ring == nil {
		return errors.Wrap(ErrEmptyRing, "nil signed ring")
	}

	hash, err := sr.Ring.Hash()
	if err != nil {
		return err
	}
	if hash != sr.Hash {
		return errors.Errorf("ring hash mismatch: have %s, computed %s", sr.Hash.Hex(), hash.Hex())
	}

	miner, err := Recover(hash, sr.Signature)
	if err != nil {
		return errors.WithMessage(err, "miner signature")
	}
	if miner != sr.Miner {
		return errors.Wrapf(ErrInvalidSignature, "ring signed by %s, miner is %s", miner.Hex(), sr.Miner.Hex())
	}

	for i, so := range sr.Ring.Orders {
		if err := VerifyOrder(so); err != nil {
			return errors.WithMessagef(err, "order %d", i)
		}

		authAddr := so.Order.DualAuthAddr
		if authAddr == (common.Address{}) {
			continue
		}
		if i >= len(sr.AuthSignatures) || sr.AuthSignatures[i] == nil {
			return errors.Wrapf(ErrInvalidSignature, "order %d missing dual-auth signature", i)
		}
		signer, err := Recover(hash, sr.AuthSignatures[i])
		if err != nil {
			return errors.WithMessagef(err, "order %d dual-auth signature", i)
		}
		if signer != authAddr {
			return errors.Wrapf(ErrInvalidSignature, "order %d authorized by %s, dual-auth address is %s", i, signer.Hex(), authAddr.Hex())
		}
	}
	return nil
}
