package smultisig

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// Action is the change an approved proposal applies to the group. It is
// either AddMember or RemoveMember.
type Action interface {
	target() schain.Address
}

// AddMember includes Member in the group.
type AddMember struct {
	Member schain.Address
}

func (a AddMember) target() schain.Address { return a.Member }

// RemoveMember excludes Member from the group.
type RemoveMember struct {
	Member schain.Address
}

func (a RemoveMember) target() schain.Address { return a.Member }

// NewAction returns the action of given kind.
func NewAction(kind Kind, member schain.Address) (Action, error) {
	switch kind {
	case KindAddMember:
		return AddMember{Member: member}, nil
	case KindRemoveMember:
		return RemoveMember{Member: member}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown kind %d", kind)
	}
}

// Action returns the change requested by this proposal.
func (p *Proposal) Action() (Action, error) {
	return NewAction(p.Kind, p.Target)
}

// ExecutionEngine applies approved proposals to the group.
type ExecutionEngine struct {
	registry *MembershipRegistry
}

// NewExecutionEngine returns an engine changing given registry.
func NewExecutionEngine(registry *MembershipRegistry) *ExecutionEngine {
	return &ExecutionEngine{registry: registry}
}

// Apply executes an approved proposal. When the change cannot be applied the
// proposal is rejected instead and the reason is emitted as an event. Only
// database failures are returned.
func (e *ExecutionEngine) Apply(db schain.KVStore, p *Proposal, events *EventLog) error {
	action, err := p.Action()
	if err != nil {
		return errors.Wrap(err, "proposal action")
	}

	var g *Group
	switch a := action.(type) {
	case AddMember:
		g, err = e.registry.Add(db, a.Member)
	case RemoveMember:
		g, err = e.registry.Remove(db, a.Member)
	default:
		return errors.Wrapf(errors.ErrHuman, "unsupported action %T", action)
	}

	if err != nil {
		if errors.ErrDatabase.Is(err) {
			return err
		}
		p.Status = StatusRejected
		p.Reason = err.Error()
		events.Emit(Event{
			Type:       EventProposalRejected,
			ProposalID: p.ID,
			Member:     p.Target,
			Kind:       p.Kind,
			Reason:     p.Reason,
		})
		return nil
	}

	p.Status = StatusApproved
	events.Emit(Event{
		Type:       EventProposalApproved,
		ProposalID: p.ID,
		Member:     p.Target,
		Kind:       p.Kind,
	})
	events.Emit(Event{
		Type:       EventMembershipChanged,
		ProposalID: p.ID,
		Member:     action.target(),
		Kind:       p.Kind,
		Group:      g.Address(),
		Size:       g.Size(),
	})
	return nil
}
