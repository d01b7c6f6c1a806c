package chain

import "github.com/pkg/errors"

// MaxRingOrders is the number of orders the 16-bit fee selection mask can describe
const MaxRingOrders = 16

// EncodeFeeSelections packs per-order fee selection flags into a bitmask where
// bit i is flags[i]. Every flag must be 0 or 1.
func EncodeFeeSelections(flags []int) (uint16, error) {
	if len(flags) > MaxRingOrders {
		return 0, errors.Wrapf(ErrOverflow, "%d flags, at most %d", len(flags), MaxRingOrders)
	}

	var mask uint16
	for i, flag := range flags {
		switch flag {
		case 0:
		case 1:
			mask |= 1 << uint(i)
		default:
			return 0, errors.Wrapf(ErrFlagOutOfRange, "flag %d is %d", i, flag)
		}
	}
	return mask, nil
}

// DecodeFeeSelections expands the low n bits of mask into flags
func DecodeFeeSelections(mask uint16, n int) ([]int, error) {
	if n < 0 || n > MaxRingOrders {
		return nil, errors.Wrapf(ErrOverflow, "%d flags, at most %d", n, MaxRingOrders)
	}

	flags := make([]int, n)
	for i := range flags {
		flags[i] = int(mask>>uint(i)) & 1
	}
	return flags, nil
}
