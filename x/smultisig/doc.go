/*
Package smultisig implements on-chain multisig governance of a single group.

Members of the group create proposals to add or remove a member. Every member
can vote once on each proposal. When enough members approve (as defined by the
proposal policy) the change is applied to the group. A proposal that can no
longer collect enough approvals is rejected.

The package is split into small engines that share a single store:

	MembershipRegistry  the group and its size bounds
	Required            the approvals needed by a policy for a given group size
	ProposalStore       proposals and their votes
	VotingEngine        records votes and decides the outcome
	ExecutionEngine     applies an approved proposal to the group

Engine ties them together and is what the message handlers call.
*/
package smultisig
