package smultisig

import "github.com/schain/schain/errors"

// x/smultisig reserves 1100 ~ 1108.
var (
	ErrGroupTooSmall     = errors.Register(1100, "group too small")
	ErrGroupTooLarge     = errors.Register(1101, "group too large")
	ErrCallerNotMember   = errors.Register(1102, "caller not a member")
	ErrCallerNotIncluded = errors.Register(1103, "caller not included")
	ErrProposalNotFound  = errors.Register(1104, "proposal not found")
	ErrProposalFinalized = errors.Register(1105, "proposal finalized")
	ErrDuplicateVote     = errors.Register(1106, "duplicate vote")
	ErrDuplicateTarget   = errors.Register(1107, "duplicate target")
	ErrMemberNotFound    = errors.Register(1108, "member not found")
)
