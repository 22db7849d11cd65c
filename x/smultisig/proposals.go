package smultisig

import (
	"encoding/binary"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/orm"
)

const (
	proposalBucketName = "proposal"
	votesBucketName    = "votes"
	statusIndex        = "status"
)

// ProposalStore keeps proposals and their vote records. Proposals are never
// deleted. Identifiers are assigned from a sequence starting at 1.
type ProposalStore struct {
	proposals orm.IDGenBucket
	votes     orm.Bucket
}

// NewProposalStore returns a store using the proposal and votes buckets.
func NewProposalStore() *ProposalStore {
	b := orm.NewBucket(proposalBucketName, orm.NewSimpleObj(nil, &Proposal{})).
		WithIndex(statusIndex, indexStatus, false)
	seq := b.Sequence(orm.SeqID)
	gen := orm.IDGeneratorFunc(func(db schain.KVStore, data orm.CloneableData) ([]byte, error) {
		p, ok := data.(*Proposal)
		if !ok {
			return nil, errors.Wrapf(errors.ErrType, "%T", data)
		}
		n, err := seq.NextInt(db)
		if err != nil {
			return nil, err
		}
		p.ID = uint64(n)
		return ProposalKey(p.ID), nil
	})
	return &ProposalStore{
		proposals: orm.WithIDGenerator(b, gen),
		votes:     orm.NewBucket(votesBucketName, orm.NewSimpleObj(nil, &VoteRecord{})),
	}
}

// ProposalKey returns the database key of the proposal with given id.
func ProposalKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// ParseProposalKey is the reverse of ProposalKey.
func ParseProposalKey(key []byte) (uint64, error) {
	if err := orm.ValidateSequence(key); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(key), nil
}

func statusValue(s Status) []byte {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint32(raw, uint32(s))
	return raw
}

func indexStatus(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of Proposal, got %T", obj.Value())
	}
	return statusValue(p.Status), nil
}

// Create assigns the next id to the proposal and stores it together with an
// empty vote record.
func (s *ProposalStore) Create(db schain.KVStore, p *Proposal) (*Proposal, error) {
	if _, err := s.proposals.Create(db, p); err != nil {
		return nil, errors.Wrap(err, "create proposal")
	}
	votes := &VoteRecord{ProposalID: p.ID}
	if err := s.votes.Save(db, orm.NewSimpleObj(ProposalKey(p.ID), votes)); err != nil {
		return nil, errors.Wrap(err, "create vote record")
	}
	return p, nil
}

// Get returns the proposal with given id or ErrProposalNotFound.
func (s *ProposalStore) Get(db schain.ReadOnlyKVStore, id uint64) (*Proposal, error) {
	obj, err := s.proposals.Get(db, ProposalKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "load proposal")
	}
	if obj == nil {
		return nil, errors.Wrapf(ErrProposalNotFound, "id %d", id)
	}
	return asProposal(obj)
}

// Votes returns the vote record of the proposal with given id.
func (s *ProposalStore) Votes(db schain.ReadOnlyKVStore, id uint64) (*VoteRecord, error) {
	obj, err := s.votes.Get(db, ProposalKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "load votes")
	}
	if obj == nil {
		return nil, errors.Wrapf(ErrProposalNotFound, "no votes for id %d", id)
	}
	v, ok := obj.Value().(*VoteRecord)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return v, nil
}

// Save updates an existing proposal.
func (s *ProposalStore) Save(db schain.KVStore, p *Proposal) error {
	return s.proposals.Save(db, orm.NewSimpleObj(ProposalKey(p.ID), p))
}

// SaveVotes updates an existing vote record.
func (s *ProposalStore) SaveVotes(db schain.KVStore, v *VoteRecord) error {
	return s.votes.Save(db, orm.NewSimpleObj(ProposalKey(v.ProposalID), v))
}

// Count returns the number of proposals ever created.
func (s *ProposalStore) Count(db schain.ReadOnlyKVStore) (uint64, error) {
	seq := s.proposals.Sequence(orm.SeqID)
	n, err := seq.Latest(db)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// Pending returns an iterator over all pending proposals in ascending id
// order. The iterator must be closed before the store is modified.
func (s *ProposalStore) Pending(db schain.ReadOnlyKVStore) (*PendingIterator, error) {
	it := &PendingIterator{db: db, bucket: s.proposals.Bucket}
	if err := it.Restart(); err != nil {
		return nil, err
	}
	return it, nil
}

// PendingProposals returns all pending proposals in ascending id order.
func (s *ProposalStore) PendingProposals(db schain.ReadOnlyKVStore) ([]*Proposal, error) {
	it, err := s.Pending(db)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var res []*Proposal
	for it.Valid() {
		p, err := it.Proposal()
		if err != nil {
			return nil, err
		}
		res = append(res, p)
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// PendingIterator lazily loads pending proposals.
//
//	it, err := store.Pending(db)
//	defer it.Close()
//	for it.Valid() {
//		p, err := it.Proposal()
//		...
//		err = it.Next()
//	}
type PendingIterator struct {
	db     schain.ReadOnlyKVStore
	bucket orm.Bucket
	keys   *orm.IndexIterator
}

// Restart moves the iterator back to the first pending proposal.
func (it *PendingIterator) Restart() error {
	it.Close()
	keys, err := it.bucket.IndexKeys(it.db, statusIndex, statusValue(StatusPending))
	if err != nil {
		return errors.Wrap(err, "pending index")
	}
	it.keys = keys
	return nil
}

// Valid returns true if Proposal can be called.
func (it *PendingIterator) Valid() bool {
	return it.keys != nil && it.keys.Valid()
}

// Next moves to the following pending proposal.
func (it *PendingIterator) Next() error {
	return it.keys.Next()
}

// Proposal loads the current proposal.
func (it *PendingIterator) Proposal() (*Proposal, error) {
	obj, err := it.bucket.Get(it.db, it.keys.Key())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "index refers missing proposal %X", it.keys.Key())
	}
	return asProposal(obj)
}

// Close releases the iterator. It can be reused after Restart.
func (it *PendingIterator) Close() {
	if it.keys != nil {
		it.keys.Close()
		it.keys = nil
	}
}

func asProposal(obj orm.Object) (*Proposal, error) {
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return p, nil
}
