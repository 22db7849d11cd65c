package smultisig

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/x"
)

// RegisterQuery registers the governance queries:
//
//	/smultisig/members            the group record
//	/smultisig/proposals          proposals by 8 byte id, or all with prefix
//	/smultisig/proposals/status   proposals by 4 byte status
//	/smultisig/votes              vote records by proposal id
//	/smultisig/pending            all pending proposals in id order
func RegisterQuery(qr schain.QueryRouter) {
	registry := NewMembershipRegistry()
	proposals := NewProposalStore()
	qr.Register("/smultisig/members", membersQuery{registry: registry})
	proposals.proposals.Register("smultisig/proposals", qr)
	proposals.votes.Register("smultisig/votes", qr)
	qr.Register("/smultisig/pending", pendingQuery{proposals: proposals})
}

type membersQuery struct {
	registry *MembershipRegistry
}

func (q membersQuery) Query(db schain.ReadOnlyKVStore, mod string, data []byte) ([]schain.Model, error) {
	if mod != schain.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	return q.registry.bucket.Query(db, mod, groupKey)
}

type pendingQuery struct {
	proposals *ProposalStore
}

func (q pendingQuery) Query(db schain.ReadOnlyKVStore, mod string, data []byte) ([]schain.Model, error) {
	if mod != schain.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	pending, err := q.proposals.PendingProposals(db)
	if err != nil {
		return nil, err
	}
	res := make([]schain.Model, 0, len(pending))
	for _, p := range pending {
		raw, err := x.MarshalValid(p)
		if err != nil {
			return nil, errors.Wrap(err, "marshal proposal")
		}
		res = append(res, schain.Pair(q.proposals.proposals.DBKey(ProposalKey(p.ID)), raw))
	}
	return res, nil
}
