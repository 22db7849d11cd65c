package smultisig

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest"
	"github.com/schain/schain/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/uber-go/tally/v4"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	ctx := schain.WithLogger(context.Background(), log.NewTMLogger(&buf))

	LogNotifier{}.Notify(ctx, Event{
		Type:       EventVoteCast,
		ProposalID: 3,
		Actor:      schaintest.SequenceAddress(1),
		Approve:    true,
	})

	out := buf.String()
	for _, want := range []string{"governance event", "event=VoteCast", "proposal=3", "approve=true", "module=smultisig"} {
		assert.True(t, strings.Contains(out, want), "%q not found in %q", want, out)
	}
}

func TestMetricsNotifier(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	n := MultiNotifier{NewMetricsNotifier(scope), nil}
	ctx := context.Background()

	n.Notify(ctx, Event{Type: EventVoteCast, ProposalID: 1})
	n.Notify(ctx, Event{Type: EventVoteCast, ProposalID: 1})
	n.Notify(ctx, Event{Type: EventProposalRejected, ProposalID: 1, Reason: expiredReason})
	n.Notify(ctx, Event{Type: EventMembershipChanged, Size: 4})

	snap := scope.Snapshot()
	events := map[string]int64{}
	rejected := map[string]int64{}
	for _, c := range snap.Counters() {
		switch c.Name() {
		case "smultisig.events":
			events[c.Tags()["event"]] = c.Value()
		case "smultisig.rejected":
			rejected[c.Tags()["reason"]] = c.Value()
		}
	}
	assert.Equal(t, int64(2), events["VoteCast"])
	assert.Equal(t, int64(1), events["ProposalRejected"])
	assert.Equal(t, int64(1), rejected["expired"])

	var members float64
	for _, g := range snap.Gauges() {
		if g.Name() == "smultisig.members" {
			members = g.Value()
		}
	}
	assert.Equal(t, float64(4), members)
}

func TestEventTags(t *testing.T) {
	el := &EventLog{}
	el.Emit(Event{Type: EventProposalApproved, ProposalID: 12})
	group := schaintest.SequenceAddress(7)
	el.Emit(Event{Type: EventMembershipChanged, Group: group})

	tags := el.Tags()
	assert.Len(t, tags, 2)
	assert.Equal(t, "smultisig.proposal_approved", string(tags[0].Key))
	assert.Equal(t, "12", string(tags[0].Value))
	assert.Equal(t, "smultisig.membership_changed", string(tags[1].Key))
	assert.Equal(t, group.String(), string(tags[1].Value))

	var discard *EventLog
	discard.Emit(Event{Type: EventVoteCast})
	assert.Nil(t, discard.Tags())
}

// failingWrite delivers through the handler and then fails the way a
// savepoint does when it cannot write the transaction state.
type failingWrite struct {
	h schain.Handler
}

func (f failingWrite) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	if _, err := f.h.Deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return nil, errors.Wrap(errors.ErrDatabase, "cannot write")
}

func TestNotifyDecorator(t *testing.T) {
	signer, other := schaintest.NewCondition(), schaintest.NewCondition()
	auth := &schaintest.Auth{Signer: signer}
	tx := &schaintest.Tx{Msg: &CreateGroupMsg{Members: []schain.Address{signer.Address(), other.Address()}}}

	cases := map[string]struct {
		next       func(schain.Handler) schain.Deliverer
		wantErr    *errors.Error
		wantEvents []EventType
	}{
		"delivered transaction notifies": {
			next:       func(h schain.Handler) schain.Deliverer { return h },
			wantEvents: []EventType{EventGroupCreated},
		},
		"failed write does not notify": {
			next:    func(h schain.Handler) schain.Deliverer { return failingWrite{h: h} },
			wantErr: errors.ErrDatabase,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			routes := handlerMap{}
			RegisterRoutes(routes, auth)
			rec := &recorder{}

			_, err := NewNotifyDecorator(rec).Deliver(context.Background(), store.MemStore(), tx, tc.next(routes[pathCreateGroupMsg]))
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.wantEvents, rec.types())
		})
	}
}

func TestEventsWithoutNotifyDecorator(t *testing.T) {
	signer, other := schaintest.NewCondition(), schaintest.NewCondition()
	routes := handlerMap{}
	RegisterRoutes(routes, &schaintest.Auth{Signer: signer})

	tx := &schaintest.Tx{Msg: &CreateGroupMsg{Members: []schain.Address{signer.Address(), other.Address()}}}
	res, err := routes[pathCreateGroupMsg].Deliver(context.Background(), store.MemStore(), tx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"smultisig.group_created"}, tagKeysOf(res))
}
