package smultisig

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/orm"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Policy defines the part of the group that must approve a proposal.
type Policy int32

const (
	PolicyAll Policy = iota + 1
	PolicyMoreThanHalf
	PolicyMoreThanTwoThirds
	PolicyMoreThanThreeQuarters
)

var policyNames = map[Policy]string{
	PolicyAll:                   "All",
	PolicyMoreThanHalf:          "MoreThanHalf",
	PolicyMoreThanTwoThirds:     "MoreThanTwoThirds",
	PolicyMoreThanThreeQuarters: "MoreThanThreeQuarters",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int32(p))
}

func (p Policy) Validate() error {
	if _, ok := policyNames[p]; !ok {
		return errors.Wrapf(errors.ErrInput, "unknown policy %d", int32(p))
	}
	return nil
}

func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Policy) UnmarshalJSON(raw []byte) error {
	names := make(map[int32]string, len(policyNames))
	for v, s := range policyNames {
		names[int32(v)] = s
	}
	return unmarshalEnum(raw, names, (*int32)(p))
}

// Kind is the change a proposal requests.
type Kind int32

const (
	KindAddMember Kind = iota + 1
	KindRemoveMember
)

var kindNames = map[Kind]string{
	KindAddMember:    "AddMember",
	KindRemoveMember: "RemoveMember",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int32(k))
}

func (k Kind) Validate() error {
	if _, ok := kindNames[k]; !ok {
		return errors.Wrapf(errors.ErrInput, "unknown kind %d", int32(k))
	}
	return nil
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(raw []byte) error {
	names := make(map[int32]string, len(kindNames))
	for v, s := range kindNames {
		names[int32(v)] = s
	}
	return unmarshalEnum(raw, names, (*int32)(k))
}

// Status is the state of a proposal. Approved and Rejected are final.
type Status int32

const (
	StatusPending Status = iota + 1
	StatusApproved
	StatusRejected
)

var statusNames = map[Status]string{
	StatusPending:  "Pending",
	StatusApproved: "Approved",
	StatusRejected: "Rejected",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errors.Wrapf(errors.ErrInput, "unknown status %d", int32(s))
	}
	return nil
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(raw []byte) error {
	names := make(map[int32]string, len(statusNames))
	for v, name := range statusNames {
		names[int32(v)] = name
	}
	return unmarshalEnum(raw, names, (*int32)(s))
}

// unmarshalEnum accepts either the name or the numeric value of an enum.
func unmarshalEnum(raw []byte, names map[int32]string, dst *int32) error {
	var n int32
	if err := json.Unmarshal(raw, &n); err == nil {
		*dst = n
		return nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrapf(errors.ErrInput, "enum: %s", err)
	}
	for v, s := range names {
		if s == name {
			*dst = v
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown name %q", name)
}

// Group is the set of members governing this chain. Members are always kept
// sorted and unique.
type Group struct {
	Members []schain.Address `json:"members"`
}

var _ orm.CloneableData = (*Group)(nil)

// NewGroup returns a group of given members in canonical order. Duplicates
// are removed.
func NewGroup(members []schain.Address) *Group {
	g := &Group{Members: make([]schain.Address, 0, len(members))}
	for _, m := range members {
		g.Members = append(g.Members, m.Clone())
	}
	g.normalize()
	return g
}

func (g *Group) normalize() {
	sort.Slice(g.Members, func(i, j int) bool {
		return g.Members[i].Compare(g.Members[j]) < 0
	})
	uniq := g.Members[:0]
	for i, m := range g.Members {
		if i > 0 && m.Equals(g.Members[i-1]) {
			continue
		}
		uniq = append(uniq, m)
	}
	g.Members = uniq
}

func (g *Group) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(g)
}

func (g *Group) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, g)
}

// Validate checks the members are valid addresses in canonical order.
func (g *Group) Validate() error {
	var errs error
	if len(g.Members) == 0 {
		errs = errors.AppendField(errs, "Members", errors.ErrEmpty)
	}
	for i, m := range g.Members {
		if err := m.Validate(); err != nil {
			errs = errors.AppendField(errs, fmt.Sprintf("Members.%d", i), err)
			continue
		}
		if i > 0 && g.Members[i-1].Compare(m) >= 0 {
			errs = errors.AppendField(errs, fmt.Sprintf("Members.%d", i),
				errors.Wrap(errors.ErrInput, "not sorted or duplicated"))
		}
	}
	return errs
}

func (g *Group) Copy() orm.CloneableData {
	cpy := &Group{Members: make([]schain.Address, len(g.Members))}
	for i, m := range g.Members {
		cpy.Members[i] = m.Clone()
	}
	return cpy
}

// Size returns the number of members.
func (g *Group) Size() int {
	return len(g.Members)
}

// Contains returns true if given address is a member of the group.
func (g *Group) Contains(addr schain.Address) bool {
	_, ok := g.find(addr)
	return ok
}

func (g *Group) find(addr schain.Address) (int, bool) {
	i := sort.Search(len(g.Members), func(i int) bool {
		return g.Members[i].Compare(addr) >= 0
	})
	return i, i < len(g.Members) && g.Members[i].Equals(addr)
}

// insert adds a member keeping the canonical order. It returns false if the
// member was already present.
func (g *Group) insert(addr schain.Address) bool {
	i, ok := g.find(addr)
	if ok {
		return false
	}
	g.Members = append(g.Members, nil)
	copy(g.Members[i+1:], g.Members[i:])
	g.Members[i] = addr.Clone()
	return true
}

// delete removes a member. It returns false if the member was not present.
func (g *Group) delete(addr schain.Address) bool {
	i, ok := g.find(addr)
	if !ok {
		return false
	}
	g.Members = append(g.Members[:i], g.Members[i+1:]...)
	return true
}

// Condition returns the condition that represents the group as a whole. It
// changes with every membership change.
func (g *Group) Condition() schain.Condition {
	h := sha256.New()
	for _, m := range g.Members {
		h.Write(m)
	}
	return schain.NewCondition("smultisig", "group", h.Sum(nil))
}

// Address returns the address derived from the group members.
func (g *Group) Address() schain.Address {
	return g.Condition().Address()
}

// Proposal requests a single membership change.
type Proposal struct {
	ID            uint64          `json:"id"`
	Kind          Kind            `json:"kind"`
	Target        schain.Address  `json:"target"`
	Policy        Policy          `json:"policy"`
	Status        Status          `json:"status"`
	Owner         schain.Address  `json:"owner"`
	ApprovalCount uint32          `json:"approval_count"`
	CreatedAt     schain.UnixTime `json:"created_at,omitempty"`
	ExpiresAt     schain.UnixTime `json:"expires_at,omitempty"`
	// Reason explains why a proposal was rejected.
	Reason string `json:"reason,omitempty"`
}

var _ orm.CloneableData = (*Proposal)(nil)

func (p *Proposal) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *Proposal) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

func (p *Proposal) Validate() error {
	var errs error
	if p.ID == 0 {
		errs = errors.AppendField(errs, "ID", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Kind", p.Kind.Validate())
	errs = errors.AppendField(errs, "Target", p.Target.Validate())
	errs = errors.AppendField(errs, "Policy", p.Policy.Validate())
	errs = errors.AppendField(errs, "Status", p.Status.Validate())
	errs = errors.AppendField(errs, "Owner", p.Owner.Validate())
	if p.ExpiresAt != 0 && p.ExpiresAt < p.CreatedAt {
		errs = errors.AppendField(errs, "ExpiresAt",
			errors.Wrap(errors.ErrInput, "before creation"))
	}
	return errs
}

func (p *Proposal) Copy() orm.CloneableData {
	cpy := *p
	cpy.Target = p.Target.Clone()
	cpy.Owner = p.Owner.Clone()
	return &cpy
}

// Final returns true when the proposal no longer accepts votes.
func (p *Proposal) Final() bool {
	return p.Status != StatusPending
}

// Expired returns true if the proposal has an end time that was reached.
func (p *Proposal) Expired(ctx schain.Context) bool {
	return p.ExpiresAt != 0 && schain.IsExpired(ctx, p.ExpiresAt)
}

// VoteRecord lists who voted on a proposal. An address is present at most
// once in either of the lists.
type VoteRecord struct {
	ProposalID uint64           `json:"proposal_id"`
	Ayes       []schain.Address `json:"ayes"`
	Nays       []schain.Address `json:"nays"`
}

var _ orm.CloneableData = (*VoteRecord)(nil)

func (v *VoteRecord) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(v)
}

func (v *VoteRecord) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, v)
}

func (v *VoteRecord) Validate() error {
	var errs error
	if v.ProposalID == 0 {
		errs = errors.AppendField(errs, "ProposalID", errors.ErrEmpty)
	}
	seen := make(map[string]struct{}, len(v.Ayes)+len(v.Nays))
	check := func(field string, addrs []schain.Address) {
		for i, a := range addrs {
			name := fmt.Sprintf("%s.%d", field, i)
			if err := a.Validate(); err != nil {
				errs = errors.AppendField(errs, name, err)
				continue
			}
			if _, ok := seen[string(a)]; ok {
				errs = errors.AppendField(errs, name, errors.Wrap(errors.ErrDuplicate, "voted twice"))
				continue
			}
			seen[string(a)] = struct{}{}
		}
	}
	check("Ayes", v.Ayes)
	check("Nays", v.Nays)
	return errs
}

func (v *VoteRecord) Copy() orm.CloneableData {
	cpy := &VoteRecord{
		ProposalID: v.ProposalID,
		Ayes:       make([]schain.Address, len(v.Ayes)),
		Nays:       make([]schain.Address, len(v.Nays)),
	}
	for i, a := range v.Ayes {
		cpy.Ayes[i] = a.Clone()
	}
	for i, a := range v.Nays {
		cpy.Nays[i] = a.Clone()
	}
	return cpy
}

// HasVoted returns true if given address is present in either list.
func (v *VoteRecord) HasVoted(addr schain.Address) bool {
	for _, a := range v.Ayes {
		if a.Equals(addr) {
			return true
		}
	}
	for _, a := range v.Nays {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// record adds the voter to the list matching the vote.
func (v *VoteRecord) record(voter schain.Address, approve bool) {
	if approve {
		v.Ayes = append(v.Ayes, voter.Clone())
	} else {
		v.Nays = append(v.Nays, voter.Clone())
	}
}
