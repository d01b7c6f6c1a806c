package chain

import (
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// EIP712 primitive type names understood by the struct hasher
const (
	TypeAddress = "address"
	TypeString  = "string"
	TypeUint    = "uint"
	TypeUint16  = "uint16"
	TypeBool    = "bool"
)

// ZeroAddressLiteral is the short zero-address form relay clients send for unset addresses
const ZeroAddressLiteral = "0x0"

// eip712Prefix precedes the domain separator and struct hash in the signed preimage
var eip712Prefix = []byte{0x19, 0x01}

// Field is one member of an EIP712 struct type. Default, when non-nil, is encoded
// in place of a value that is missing from the value map.
type Field struct {
	Name    string
	Type    string
	Default interface{}
}

// StructType is an EIP712 struct type with its fields in declared order.
// The order is part of the type hash and must never be changed for a deployed schema.
type StructType struct {
	Name   string
	Fields []Field
}

// EncodeType returns the canonical type signature:
// `Name(type0 name0,type1 name1,...)`
func (t StructType) EncodeType() string {
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('(')
	for i, field := range t.Fields {
		if i != 0 {
			b.WriteByte(',')
		}
		b.WriteString(field.Type)
		b.WriteByte(' ')
		b.WriteString(field.Name)
	}
	b.WriteByte(')')
	return b.String()
}

// TypeHash returns keccak256 of the type signature
func (t StructType) TypeHash() common.Hash {
	return crypto.Keccak256Hash([]byte(t.EncodeType()))
}

// EncodeData returns typeHash followed by the 32-byte encoding of every field value.
func (t StructType) EncodeData(values map[string]interface{}) ([]byte, error) {
	typeHash := t.TypeHash()

	encoded := make([]byte, 0, 32*(len(t.Fields)+1))
	encoded = append(encoded, typeHash.Bytes()...)

	for _, field := range t.Fields {
		if !isSupportedType(field.Type) {
			return nil, errors.Wrapf(ErrUnsupportedType, "%s.%s has type %q", t.Name, field.Name, field.Type)
		}

		value, ok := values[field.Name]
		if !ok || value == nil {
			if field.Default == nil {
				return nil, errors.Wrapf(ErrSchemaMismatch, "%s.%s is missing", t.Name, field.Name)
			}
			value = field.Default
		}

		word, err := encodeValue(field.Type, value)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s.%s", t.Name, field.Name)
		}
		encoded = append(encoded, word...)
	}

	return encoded, nil
}

// HashStruct computes keccak256(EncodeData(values))
func (t StructType) HashStruct(values map[string]interface{}) (common.Hash, error) {
	encoded, err := t.EncodeData(values)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// TypedSchema pairs the EIP712Domain type with the primary type being signed.
type TypedSchema struct {
	Domain  StructType
	Primary StructType
}

// DomainSeparator hashes the domain values with the domain type
func (s TypedSchema) DomainSeparator(domain map[string]interface{}) (common.Hash, error) {
	return s.Domain.HashStruct(domain)
}

// Preimage returns `0x19 0x01 || domainSeparator || hashStruct(message)`.
func (s TypedSchema) Preimage(domain, message map[string]interface{}) ([]byte, error) {
	domainSeparator, err := s.DomainSeparator(domain)
	if err != nil {
		return nil, errors.WithMessage(err, "hash domain")
	}
	messageHash, err := s.Primary.HashStruct(message)
	if err != nil {
		return nil, errors.WithMessage(err, "hash message")
	}
	return TypedDataPreimage(domainSeparator, messageHash), nil
}

// Hash returns the EIP712 digest of message under domain
func (s TypedSchema) Hash(domain, message map[string]interface{}) (common.Hash, error) {
	preimage, err := s.Preimage(domain, message)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(preimage), nil
}

// TypedDataPreimage concatenates the EIP712 prefix, the domain separator and the struct hash
func TypedDataPreimage(domainSeparator, structHash common.Hash) []byte {
	data := make([]byte, 0, len(eip712Prefix)+2*common.HashLength)
	data = append(data, eip712Prefix...)
	data = append(data, domainSeparator.Bytes()...)
	data = append(data, structHash.Bytes()...)
	return data
}

// TypedDataHash returns the EIP712 digest:
// keccak256("\x19\x01" ++ domainSeparator ++ structHash)
func TypedDataHash(domainSeparator, structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(TypedDataPreimage(domainSeparator, structHash))
}

func isSupportedType(typ string) bool {
	switch typ {
	case TypeAddress, TypeString, TypeUint, TypeUint16, TypeBool:
		return true
	}
	return false
}

func encodeValue(typ string, value interface{}) ([]byte, error) {
	switch typ {
	case TypeAddress:
		addr, err := toAddress(value)
		if err != nil {
			return nil, err
		}
		return common.LeftPadBytes(addr.Bytes(), 32), nil

	case TypeUint, TypeUint16:
		n, err := toUint256(value)
		if err != nil {
			return nil, err
		}
		if typ == TypeUint16 && (!n.IsUint64() || n.Uint64() > math.MaxUint16) {
			return nil, errors.Wrapf(ErrSchemaMismatch, "%s does not fit uint16", n.ToBig().String())
		}
		word := n.Bytes32()
		return word[:], nil

	case TypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, errors.Wrapf(ErrSchemaMismatch, "bool field got %T", value)
		}
		word := make([]byte, 32)
		if b {
			word[31] = 1
		}
		return word, nil

	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, errors.Wrapf(ErrSchemaMismatch, "string field got %T", value)
		}
		return crypto.Keccak256([]byte(s)), nil
	}

	return nil, errors.Wrapf(ErrUnsupportedType, "%q", typ)
}

func toAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		if v == nil {
			return common.Address{}, errors.Wrap(ErrSchemaMismatch, "nil address")
		}
		return *v, nil
	case string:
		if v == ZeroAddressLiteral {
			return common.Address{}, nil
		}
		if !common.IsHexAddress(v) {
			return common.Address{}, errors.Wrapf(ErrSchemaMismatch, "invalid address %q", v)
		}
		return common.HexToAddress(v), nil
	}
	return common.Address{}, errors.Wrapf(ErrSchemaMismatch, "address field got %T", value)
}

func toUint256(value interface{}) (*uint256.Int, error) {
	switch v := value.(type) {
	case *uint256.Int:
		if v == nil {
			return nil, errors.Wrap(ErrSchemaMismatch, "nil integer")
		}
		return new(uint256.Int).Set(v), nil
	case *big.Int:
		return bigToUint256(v)
	case string:
		n, err := ParseBigInt(v)
		if err != nil {
			return nil, errors.Wrap(ErrSchemaMismatch, err.Error())
		}
		return bigToUint256(n)
	case uint:
		return uint256.NewInt(uint64(v)), nil
	case uint8:
		return uint256.NewInt(uint64(v)), nil
	case uint16:
		return uint256.NewInt(uint64(v)), nil
	case uint32:
		return uint256.NewInt(uint64(v)), nil
	case uint64:
		return uint256.NewInt(v), nil
	case int:
		return signedToUint256(int64(v))
	case int8:
		return signedToUint256(int64(v))
	case int16:
		return signedToUint256(int64(v))
	case int32:
		return signedToUint256(int64(v))
	case int64:
		return signedToUint256(v)
	}
	return nil, errors.Wrapf(ErrSchemaMismatch, "integer field got %T", value)
}

func bigToUint256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return nil, errors.Wrap(ErrSchemaMismatch, "nil integer")
	}
	if v.Sign() < 0 {
		return nil, errors.Wrapf(ErrSchemaMismatch, "negative integer %s", v)
	}
	n, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errors.Wrapf(ErrSchemaMismatch, "integer %s exceeds 256 bits", v)
	}
	return n, nil
}

func signedToUint256(v int64) (*uint256.Int, error) {
	if v < 0 {
		return nil, errors.Wrapf(ErrSchemaMismatch, "negative integer %d", v)
	}
	return uint256.NewInt(uint64(v)), nil
}

// ParseBigInt parses a decimal or 0x-prefixed hexadecimal integer string
func ParseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	var (
		n  *big.Int
		ok bool
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, ok = new(big.Int).SetString(s[2:], 16)
	} else {
		n, ok = new(big.Int).SetString(s, 10)
	}
	if !ok {
		return nil, errors.Errorf("invalid integer %q", s)
	}
	return n, nil
}
