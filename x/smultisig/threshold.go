package smultisig

import "github.com/schain/schain/errors"

// Required returns the number of approvals a proposal with given policy
// needs in a group of given size.
//
//	All                    size
//	MoreThanHalf           floor(size/2) + 1
//	MoreThanTwoThirds      ceil(2*size/3)
//	MoreThanThreeQuarters  ceil(3*size/4)
func Required(size int, policy Policy) (int, error) {
	if size < 0 {
		return 0, errors.Wrapf(errors.ErrInput, "negative group size %d", size)
	}
	switch policy {
	case PolicyAll:
		return size, nil
	case PolicyMoreThanHalf:
		return size/2 + 1, nil
	case PolicyMoreThanTwoThirds:
		return ceilDiv(2*size, 3), nil
	case PolicyMoreThanThreeQuarters:
		return ceilDiv(3*size, 4), nil
	default:
		return 0, errors.Wrapf(errors.ErrInput, "unknown policy %d", policy)
	}
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
