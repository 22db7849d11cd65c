package smultisig

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// Reasons recorded on rejected proposals.
const (
	expiredReason     = "expired"
	rejectedReason    = "rejected by votes"
	unreachableReason = "approval unreachable"
)

// VotingEngine records votes and finalizes proposals once their outcome is
// known.
type VotingEngine struct {
	registry  *MembershipRegistry
	proposals *ProposalStore
	execution *ExecutionEngine
}

// NewVotingEngine returns an engine deciding on proposals of given store.
func NewVotingEngine(registry *MembershipRegistry, proposals *ProposalStore, execution *ExecutionEngine) *VotingEngine {
	return &VotingEngine{
		registry:  registry,
		proposals: proposals,
		execution: execution,
	}
}

// Cast records a vote of the caller. When the vote decides the proposal it is
// finalized in the same call and, if approved, executed.
//
// A vote on an expired proposal rejects it without being counted. No error
// is returned in that case so that the rejection is stored.
func (v *VotingEngine) Cast(ctx schain.Context, db schain.KVStore, caller schain.Address, id uint64, approve bool, events *EventLog) (*Proposal, error) {
	p, err := v.proposals.Get(db, id)
	if err != nil {
		return nil, err
	}
	g, err := v.registry.Group(db)
	if err != nil {
		return nil, err
	}
	if !g.Contains(caller) {
		return nil, errors.Wrapf(ErrCallerNotMember, "caller %s", caller)
	}
	if p.Final() {
		return nil, errors.Wrapf(ErrProposalFinalized, "proposal %d is %s", id, p.Status)
	}

	if p.Expired(ctx) {
		v.reject(p, expiredReason, events)
		if err := v.proposals.Save(db, p); err != nil {
			return nil, errors.Wrap(err, "save proposal")
		}
		return p, nil
	}

	votes, err := v.proposals.Votes(db, id)
	if err != nil {
		return nil, err
	}
	if votes.HasVoted(caller) {
		return nil, errors.Wrapf(ErrDuplicateVote, "%s on proposal %d", caller, id)
	}
	votes.record(caller, approve)
	if approve {
		p.ApprovalCount++
	}
	events.Emit(Event{
		Type:       EventVoteCast,
		ProposalID: p.ID,
		Actor:      caller,
		Approve:    approve,
	})

	if err := v.tally(db, p, g.Size(), len(votes.Nays), events); err != nil {
		return nil, err
	}

	if err := v.proposals.SaveVotes(db, votes); err != nil {
		return nil, errors.Wrap(err, "save votes")
	}
	if err := v.proposals.Save(db, p); err != nil {
		return nil, errors.Wrap(err, "save proposal")
	}
	return p, nil
}

// tally finalizes the proposal if the votes decide it.
func (v *VotingEngine) tally(db schain.KVStore, p *Proposal, size, nays int, events *EventLog) error {
	required, err := Required(size, p.Policy)
	if err != nil {
		return err
	}
	switch {
	case int(p.ApprovalCount) >= required:
		return v.execution.Apply(db, p, events)
	case nays >= required:
		v.reject(p, rejectedReason, events)
	case size-nays < required:
		v.reject(p, unreachableReason, events)
	}
	return nil
}

func (v *VotingEngine) reject(p *Proposal, reason string, events *EventLog) {
	p.Status = StatusRejected
	p.Reason = reason
	events.Emit(Event{
		Type:       EventProposalRejected,
		ProposalID: p.ID,
		Member:     p.Target,
		Kind:       p.Kind,
		Reason:     reason,
	})
}
