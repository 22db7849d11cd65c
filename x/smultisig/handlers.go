package smultisig

import (
	"encoding/binary"
	"fmt"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/x"
)

const (
	createGroupCost    = 100
	createProposalCost = 50
	voteCost           = 10
)

// RegisterRoutes registers handlers for all governance messages. Events of
// delivered transactions are returned as tags and passed to an enclosing
// NotifyDecorator.
func RegisterRoutes(r schain.Registry, auth x.Authenticator) {
	engine := NewEngine()
	b := base{auth: auth, engine: engine}
	r.Handle(pathCreateGroupMsg, CreateGroupHandler{b})
	r.Handle(pathCreateProposalMsg, CreateProposalHandler{b})
	r.Handle(pathVoteMsg, VoteHandler{b})
	r.Handle(pathAddMemberMsg, AddMemberHandler{b})
	r.Handle(pathRemoveMemberMsg, RemoveMemberHandler{b})
}

// outcome is what a message produced.
type outcome struct {
	data []byte
	log  string
}

type runFunc func(ctx schain.Context, db schain.KVStore, caller schain.Address, events *EventLog) (*outcome, error)

type base struct {
	auth   x.Authenticator
	engine *Engine
}

// check runs the full operation on the check state so that following
// transactions in the mempool see its effect. Events are dropped.
func (b base) check(ctx schain.Context, db schain.KVStore, cost int64, run runFunc) (*schain.CheckResult, error) {
	caller, err := x.AnySigner(ctx, b.auth)
	if err != nil {
		return nil, err
	}
	if _, err := run(ctx, db, caller, nil); err != nil {
		return nil, err
	}
	return &schain.CheckResult{GasAllocated: cost}, nil
}

func (b base) deliver(ctx schain.Context, db schain.KVStore, run runFunc) (*schain.DeliverResult, error) {
	caller, err := x.AnySigner(ctx, b.auth)
	if err != nil {
		return nil, err
	}
	events := &EventLog{}
	out, err := run(ctx, db, caller, events)
	if err != nil {
		return nil, err
	}
	collect(ctx, events)
	return &schain.DeliverResult{
		Data: out.data,
		Log:  out.log,
		Tags: events.Tags(),
	}, nil
}

func proposalOutcome(p *Proposal) *outcome {
	log := fmt.Sprintf("proposal %d %s", p.ID, p.Status)
	if p.Reason != "" {
		log += ": " + p.Reason
	}
	return &outcome{data: ProposalKey(p.ID), log: log}
}

// CreateGroupHandler replaces the group.
type CreateGroupHandler struct {
	base
}

var _ schain.Handler = CreateGroupHandler{}

func (h CreateGroupHandler) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.check(ctx, db, createGroupCost, run)
}

func (h CreateGroupHandler) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.deliver(ctx, db, run)
}

func (h CreateGroupHandler) load(tx schain.Tx) (runFunc, error) {
	var msg CreateGroupMsg
	if err := schain.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return func(ctx schain.Context, db schain.KVStore, caller schain.Address, events *EventLog) (*outcome, error) {
		n, err := h.engine.CreateGroup(ctx, db, caller, msg.Members, events)
		if err != nil {
			return nil, err
		}
		data := make([]byte, 4)
		binary.BigEndian.PutUint32(data, uint32(n))
		return &outcome{data: data, log: fmt.Sprintf("group of %d members", n)}, nil
	}, nil
}

// CreateProposalHandler creates a proposal with an explicit policy.
type CreateProposalHandler struct {
	base
}

var _ schain.Handler = CreateProposalHandler{}

func (h CreateProposalHandler) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.check(ctx, db, createProposalCost, run)
}

func (h CreateProposalHandler) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.deliver(ctx, db, run)
}

func (h CreateProposalHandler) load(tx schain.Tx) (runFunc, error) {
	var msg CreateProposalMsg
	if err := schain.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return func(ctx schain.Context, db schain.KVStore, caller schain.Address, events *EventLog) (*outcome, error) {
		p, err := h.engine.CreateProposal(ctx, db, caller, msg.Kind, msg.Target, msg.Policy, events)
		if err != nil {
			return nil, err
		}
		return proposalOutcome(p), nil
	}, nil
}

// VoteHandler casts a vote.
type VoteHandler struct {
	base
}

var _ schain.Handler = VoteHandler{}

func (h VoteHandler) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.check(ctx, db, voteCost, run)
}

func (h VoteHandler) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.deliver(ctx, db, run)
}

func (h VoteHandler) load(tx schain.Tx) (runFunc, error) {
	var msg VoteMsg
	if err := schain.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return func(ctx schain.Context, db schain.KVStore, caller schain.Address, events *EventLog) (*outcome, error) {
		p, err := h.engine.Vote(ctx, db, caller, msg.ProposalID, msg.Approve, events)
		if err != nil {
			return nil, err
		}
		return proposalOutcome(p), nil
	}, nil
}

// AddMemberHandler proposes a new member.
type AddMemberHandler struct {
	base
}

var _ schain.Handler = AddMemberHandler{}

func (h AddMemberHandler) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.check(ctx, db, createProposalCost, run)
}

func (h AddMemberHandler) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.deliver(ctx, db, run)
}

func (h AddMemberHandler) load(tx schain.Tx) (runFunc, error) {
	var msg AddMemberMsg
	if err := schain.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return func(ctx schain.Context, db schain.KVStore, caller schain.Address, events *EventLog) (*outcome, error) {
		p, err := h.engine.AddMember(ctx, db, caller, msg.Member, events)
		if err != nil {
			return nil, err
		}
		return proposalOutcome(p), nil
	}, nil
}

// RemoveMemberHandler proposes to remove a member.
type RemoveMemberHandler struct {
	base
}

var _ schain.Handler = RemoveMemberHandler{}

func (h RemoveMemberHandler) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.check(ctx, db, createProposalCost, run)
}

func (h RemoveMemberHandler) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	run, err := h.load(tx)
	if err != nil {
		return nil, err
	}
	return h.deliver(ctx, db, run)
}

func (h RemoveMemberHandler) load(tx schain.Tx) (runFunc, error) {
	var msg RemoveMemberMsg
	if err := schain.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return func(ctx schain.Context, db schain.KVStore, caller schain.Address, events *EventLog) (*outcome, error) {
		p, err := h.engine.RemoveMember(ctx, db, caller, msg.Member, events)
		if err != nil {
			return nil, err
		}
		return proposalOutcome(p), nil
	}, nil
}
