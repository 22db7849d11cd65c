package smultisig

import (
	"time"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// Engine exposes the governance operations. All state is kept in the store
// passed to each call, the engine itself is stateless.
type Engine struct {
	registry  *MembershipRegistry
	proposals *ProposalStore
	voting    *VotingEngine
}

// NewEngine wires the registry, the proposal store and both engines.
func NewEngine() *Engine {
	registry := NewMembershipRegistry()
	proposals := NewProposalStore()
	execution := NewExecutionEngine(registry)
	return &Engine{
		registry:  registry,
		proposals: proposals,
		voting:    NewVotingEngine(registry, proposals, execution),
	}
}

// CreateGroup replaces the group with given members. The caller must be one
// of them. It returns the number of members after deduplication.
func (e *Engine) CreateGroup(ctx schain.Context, db schain.KVStore, caller schain.Address, members []schain.Address, events *EventLog) (int, error) {
	g, err := e.registry.Initialize(db, caller, members)
	if err != nil {
		return 0, err
	}
	events.Emit(Event{
		Type:  EventGroupCreated,
		Actor: caller,
		Group: g.Address(),
		Size:  g.Size(),
	})
	return g.Size(), nil
}

// CreateProposal stores a new pending proposal and casts the implicit
// approval of its owner. It returns the proposal as it is after that vote.
func (e *Engine) CreateProposal(ctx schain.Context, db schain.KVStore, caller schain.Address, kind Kind, target schain.Address, policy Policy, events *EventLog) (*Proposal, error) {
	g, err := e.registry.Group(db)
	if err != nil {
		return nil, err
	}
	if !g.Contains(caller) {
		return nil, errors.Wrapf(ErrCallerNotMember, "caller %s", caller)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if uint32(g.Size()) > conf.ProposalCeiling {
		return nil, errors.Wrapf(ErrGroupTooLarge, "proposals allowed up to %d members", conf.ProposalCeiling)
	}
	switch kind {
	case KindAddMember:
		if g.Contains(target) {
			return nil, errors.Wrapf(ErrDuplicateTarget, "%s already a member", target)
		}
	case KindRemoveMember:
		if !g.Contains(target) {
			return nil, errors.Wrapf(ErrDuplicateTarget, "%s not a member", target)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown kind %d", kind)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	p := &Proposal{
		Kind:   kind,
		Target: target,
		Policy: policy,
		Status: StatusPending,
		Owner:  caller,
	}
	if now, ok := schain.BlockTime(ctx); ok {
		p.CreatedAt = schain.AsUnixTime(now)
		if conf.VotingPeriod > 0 {
			p.ExpiresAt = p.CreatedAt.Add(time.Duration(conf.VotingPeriod) * time.Second)
		}
	}
	if _, err := e.proposals.Create(db, p); err != nil {
		return nil, err
	}
	events.Emit(Event{
		Type:       EventProposalCreated,
		ProposalID: p.ID,
		Actor:      caller,
		Member:     target,
		Kind:       kind,
	})
	return e.voting.Cast(ctx, db, caller, p.ID, true, events)
}

// Vote casts the vote of the caller on a proposal.
func (e *Engine) Vote(ctx schain.Context, db schain.KVStore, caller schain.Address, id uint64, approve bool, events *EventLog) (*Proposal, error) {
	return e.voting.Cast(ctx, db, caller, id, approve, events)
}

// AddMember proposes to include member using the configured default policy.
func (e *Engine) AddMember(ctx schain.Context, db schain.KVStore, caller, member schain.Address, events *EventLog) (*Proposal, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	return e.CreateProposal(ctx, db, caller, KindAddMember, member, conf.DefaultPolicy, events)
}

// RemoveMember proposes to exclude member using the configured default
// policy.
func (e *Engine) RemoveMember(ctx schain.Context, db schain.KVStore, caller, member schain.Address, events *EventLog) (*Proposal, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	return e.CreateProposal(ctx, db, caller, KindRemoveMember, member, conf.DefaultPolicy, events)
}

// Members returns the group members in canonical order.
func (e *Engine) Members(db schain.ReadOnlyKVStore) ([]schain.Address, error) {
	return e.registry.Members(db)
}

// Group returns the current group.
func (e *Engine) Group(db schain.ReadOnlyKVStore) (*Group, error) {
	return e.registry.Group(db)
}

// Proposal returns the proposal with given id.
func (e *Engine) Proposal(db schain.ReadOnlyKVStore, id uint64) (*Proposal, error) {
	return e.proposals.Get(db, id)
}

// Votes returns the vote record of the proposal with given id.
func (e *Engine) Votes(db schain.ReadOnlyKVStore, id uint64) (*VoteRecord, error) {
	return e.proposals.Votes(db, id)
}

// PendingProposals returns all proposals still accepting votes, ordered by
// id.
func (e *Engine) PendingProposals(db schain.ReadOnlyKVStore) ([]*Proposal, error) {
	return e.proposals.PendingProposals(db)
}

// Pending returns a lazy iterator over pending proposals.
func (e *Engine) Pending(db schain.ReadOnlyKVStore) (*PendingIterator, error) {
	return e.proposals.Pending(db)
}
