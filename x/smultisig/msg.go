package smultisig

import (
	"fmt"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	amino "github.com/tendermint/go-amino"
)

const (
	pathCreateGroupMsg    = "smultisig/create_group"
	pathCreateProposalMsg = "smultisig/create_proposal"
	pathVoteMsg           = "smultisig/vote"
	pathAddMemberMsg      = "smultisig/add_member"
	pathRemoveMemberMsg   = "smultisig/remove_member"
)

// RegisterCodec registers all messages of this package so that they can be
// carried by a transaction as schain.Msg.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CreateGroupMsg{}, "smultisig/CreateGroupMsg", nil)
	c.RegisterConcrete(&CreateProposalMsg{}, "smultisig/CreateProposalMsg", nil)
	c.RegisterConcrete(&VoteMsg{}, "smultisig/VoteMsg", nil)
	c.RegisterConcrete(&AddMemberMsg{}, "smultisig/AddMemberMsg", nil)
	c.RegisterConcrete(&RemoveMemberMsg{}, "smultisig/RemoveMemberMsg", nil)
}

// CreateGroupMsg replaces the group. The signer must be one of the members.
type CreateGroupMsg struct {
	Members []schain.Address `json:"members"`
}

var _ schain.Msg = (*CreateGroupMsg)(nil)

func (CreateGroupMsg) Path() string {
	return pathCreateGroupMsg
}

func (m *CreateGroupMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateGroupMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m CreateGroupMsg) Validate() error {
	var errs error
	for i, a := range m.Members {
		errs = errors.AppendField(errs, fmt.Sprintf("Members.%d", i), a.Validate())
	}
	return errs
}

// CreateProposalMsg requests a membership change with an explicit policy.
type CreateProposalMsg struct {
	Kind   Kind           `json:"kind"`
	Target schain.Address `json:"target"`
	Policy Policy         `json:"policy"`
}

var _ schain.Msg = (*CreateProposalMsg)(nil)

func (CreateProposalMsg) Path() string {
	return pathCreateProposalMsg
}

func (m *CreateProposalMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateProposalMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m CreateProposalMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Kind", m.Kind.Validate())
	errs = errors.AppendField(errs, "Target", m.Target.Validate())
	errs = errors.AppendField(errs, "Policy", m.Policy.Validate())
	return errs
}

// VoteMsg casts the signer vote on a pending proposal.
type VoteMsg struct {
	ProposalID uint64 `json:"proposal_id"`
	Approve    bool   `json:"approve"`
}

var _ schain.Msg = (*VoteMsg)(nil)

func (VoteMsg) Path() string {
	return pathVoteMsg
}

func (m *VoteMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *VoteMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m VoteMsg) Validate() error {
	if m.ProposalID == 0 {
		return errors.Field("ProposalID", errors.ErrEmpty, "required")
	}
	return nil
}

// AddMemberMsg proposes to include a member using the default policy.
type AddMemberMsg struct {
	Member schain.Address `json:"member"`
}

var _ schain.Msg = (*AddMemberMsg)(nil)

func (AddMemberMsg) Path() string {
	return pathAddMemberMsg
}

func (m *AddMemberMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *AddMemberMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m AddMemberMsg) Validate() error {
	return errors.Field("Member", m.Member.Validate(), "invalid")
}

// RemoveMemberMsg proposes to exclude a member using the default policy.
type RemoveMemberMsg struct {
	Member schain.Address `json:"member"`
}

var _ schain.Msg = (*RemoveMemberMsg)(nil)

func (RemoveMemberMsg) Path() string {
	return pathRemoveMemberMsg
}

func (m *RemoveMemberMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RemoveMemberMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m RemoveMemberMsg) Validate() error {
	return errors.Field("Member", m.Member.Validate(), "invalid")
}
