package smultisig

import (
	"strconv"

	"github.com/schain/schain"
	"github.com/tendermint/tendermint/libs/common"
)

// EventType names a governance state transition.
type EventType string

const (
	EventGroupCreated      EventType = "GroupCreated"
	EventProposalCreated   EventType = "ProposalCreated"
	EventVoteCast          EventType = "VoteCast"
	EventProposalApproved  EventType = "ProposalApproved"
	EventProposalRejected  EventType = "ProposalRejected"
	EventMembershipChanged EventType = "MembershipChanged"
)

var tagKeys = map[EventType]string{
	EventGroupCreated:      "smultisig.group_created",
	EventProposalCreated:   "smultisig.proposal_created",
	EventVoteCast:          "smultisig.vote_cast",
	EventProposalApproved:  "smultisig.proposal_approved",
	EventProposalRejected:  "smultisig.proposal_rejected",
	EventMembershipChanged: "smultisig.membership_changed",
}

// Event describes a single state transition. Only the fields relevant for
// the type are set.
type Event struct {
	Type       EventType
	ProposalID uint64
	// Actor is the member that caused the transition.
	Actor schain.Address
	// Member is the address a proposal or membership change is about.
	Member  schain.Address
	Kind    Kind
	Approve bool
	// Group is the derived group address after the transition.
	Group  schain.Address
	Size   int
	Reason string
}

// Tag returns the ABCI tag describing this event. Proposal events carry the
// proposal id, group events carry the group address.
func (e Event) Tag() common.KVPair {
	var value string
	switch e.Type {
	case EventGroupCreated, EventMembershipChanged:
		value = e.Group.String()
	default:
		value = strconv.FormatUint(e.ProposalID, 10)
	}
	return common.KVPair{Key: []byte(tagKeys[e.Type]), Value: []byte(value)}
}

// keyvals returns the event as logger key value pairs.
func (e Event) keyvals() []interface{} {
	kv := []interface{}{"event", string(e.Type)}
	if e.ProposalID != 0 {
		kv = append(kv, "proposal", e.ProposalID)
	}
	if e.Actor != nil {
		kv = append(kv, "actor", e.Actor.String())
	}
	if e.Member != nil {
		kv = append(kv, "member", e.Member.String())
	}
	if e.Type == EventVoteCast {
		kv = append(kv, "approve", e.Approve)
	}
	if e.Group != nil {
		kv = append(kv, "group", e.Group.String(), "size", e.Size)
	}
	if e.Reason != "" {
		kv = append(kv, "reason", e.Reason)
	}
	return kv
}

// EventLog collects events of a single transaction. A nil log discards
// everything.
type EventLog struct {
	events []Event
}

// Emit appends an event.
func (l *EventLog) Emit(e Event) {
	if l == nil {
		return
	}
	l.events = append(l.events, e)
}

// Events returns all emitted events in order.
func (l *EventLog) Events() []Event {
	if l == nil {
		return nil
	}
	return l.events
}

// Tags converts all events into ABCI tags.
func (l *EventLog) Tags() []common.KVPair {
	if l == nil || len(l.events) == 0 {
		return nil
	}
	tags := make([]common.KVPair, len(l.events))
	for i, e := range l.events {
		tags[i] = e.Tag()
	}
	return tags
}
