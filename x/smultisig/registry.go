package smultisig

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/orm"
)

const groupBucketName = "group"

// groupKey is the only key used in the group bucket.
var groupKey = []byte("current")

// MembershipRegistry owns the group. Every change is validated against the
// size bounds of the current Configuration.
type MembershipRegistry struct {
	bucket orm.Bucket
}

// NewMembershipRegistry returns a registry backed by the group bucket.
func NewMembershipRegistry() *MembershipRegistry {
	return &MembershipRegistry{
		bucket: orm.NewBucket(groupBucketName, orm.NewSimpleObj(nil, &Group{})),
	}
}

// Group returns the current group. Before a group is created an empty group
// is returned.
func (r *MembershipRegistry) Group(db schain.ReadOnlyKVStore) (*Group, error) {
	obj, err := r.bucket.Get(db, groupKey)
	if err != nil {
		return nil, errors.Wrap(err, "load group")
	}
	if obj == nil {
		return &Group{}, nil
	}
	g, ok := obj.Value().(*Group)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return g, nil
}

// Members returns the members of the group in canonical order.
func (r *MembershipRegistry) Members(db schain.ReadOnlyKVStore) ([]schain.Address, error) {
	g, err := r.Group(db)
	if err != nil {
		return nil, err
	}
	return g.Members, nil
}

// Contains returns true if the address is a member of the group.
func (r *MembershipRegistry) Contains(db schain.ReadOnlyKVStore, addr schain.Address) (bool, error) {
	g, err := r.Group(db)
	if err != nil {
		return false, err
	}
	return g.Contains(addr), nil
}

// Size returns the number of members of the group.
func (r *MembershipRegistry) Size(db schain.ReadOnlyKVStore) (int, error) {
	g, err := r.Group(db)
	if err != nil {
		return 0, err
	}
	return g.Size(), nil
}

// Initialize replaces the group with given members. The caller must be one of
// them. An empty member list is ErrGroupTooSmall. It returns the new group.
func (r *MembershipRegistry) Initialize(db schain.KVStore, caller schain.Address, members []schain.Address) (*Group, error) {
	if len(members) == 0 {
		return nil, errors.Wrap(ErrGroupTooSmall, "no members")
	}
	included := false
	for _, m := range members {
		if m.Equals(caller) {
			included = true
			break
		}
	}
	if !included {
		return nil, errors.Wrapf(ErrCallerNotIncluded, "caller %s", caller)
	}
	return r.initialize(db, members)
}

// initialize replaces the group without checking who asked for it.
func (r *MembershipRegistry) initialize(db schain.KVStore, members []schain.Address) (*Group, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	g := NewGroup(members)
	if err := checkBounds(conf, g.Size()); err != nil {
		return nil, err
	}
	if err := r.save(db, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Add includes a new member. It fails with ErrGroupTooLarge if the member is
// already present or the group is full.
func (r *MembershipRegistry) Add(db schain.KVStore, member schain.Address) (*Group, error) {
	conf, g, err := r.loadExisting(db)
	if err != nil {
		return nil, err
	}
	if g.Contains(member) {
		return nil, errors.Wrapf(ErrGroupTooLarge, "%s already a member", member)
	}
	if uint32(g.Size()) >= conf.MaxMembers {
		return nil, errors.Wrapf(ErrGroupTooLarge, "max %d members", conf.MaxMembers)
	}
	g.insert(member)
	if err := r.save(db, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Remove excludes a member. It fails with ErrMemberNotFound if the address is
// not a member and with ErrGroupTooSmall if the group cannot shrink.
func (r *MembershipRegistry) Remove(db schain.KVStore, member schain.Address) (*Group, error) {
	conf, g, err := r.loadExisting(db)
	if err != nil {
		return nil, err
	}
	if !g.Contains(member) {
		return nil, errors.Wrapf(ErrMemberNotFound, "%s", member)
	}
	if uint32(g.Size()) <= conf.MinMembers {
		return nil, errors.Wrapf(ErrGroupTooSmall, "min %d members", conf.MinMembers)
	}
	g.delete(member)
	if err := r.save(db, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *MembershipRegistry) loadExisting(db schain.KVStore) (Configuration, *Group, error) {
	conf, err := loadConf(db)
	if err != nil {
		return conf, nil, err
	}
	g, err := r.Group(db)
	if err != nil {
		return conf, nil, err
	}
	if g.Size() == 0 {
		return conf, nil, errors.Wrap(errors.ErrState, "group not created")
	}
	return conf, g, nil
}

func (r *MembershipRegistry) save(db schain.KVStore, g *Group) error {
	if err := r.bucket.Save(db, orm.NewSimpleObj(groupKey, g)); err != nil {
		return errors.Wrap(err, "save group")
	}
	return nil
}

func checkBounds(conf Configuration, size int) error {
	if uint32(size) < conf.MinMembers {
		return errors.Wrapf(ErrGroupTooSmall, "%d members, min %d", size, conf.MinMembers)
	}
	if uint32(size) > conf.MaxMembers {
		return errors.Wrapf(ErrGroupTooLarge, "%d members, max %d", size, conf.MaxMembers)
	}
	return nil
}
