package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/schain/schain/schaintest/assert"
	"github.com/schain/schain/store"
)

// makeBase returns the base layer over a fresh on disk tree.
func makeBase() (store.CacheableKVStore, func()) {
	commit, close := makeCommitStore()
	return commit.Adapter(), close
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	close := func() { os.RemoveAll(tmpDir) }
	commit, err := NewCommitStore(tmpDir, "base")
	if err != nil {
		close()
		panic(err)
	}
	return commit, close
}

func TestCacheGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestCacheConflicts(t *testing.T) {
	store.NewTestSuite(makeBase).CacheConflicts(t)
}

func TestCacheIterators(t *testing.T) {
	store.NewTestSuite(makeBase).Iterators(t)
}

// TestCommitOverwrite checks that only committed data is visible through
// Get, and that it survives a reload from disk.
func TestCommitOverwrite(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-commit-")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	commit, err := NewCommitStore(tmpDir, "base")
	assert.Nil(t, err)
	assert.Nil(t, commit.LoadLatestVersion())

	k, v, v2 := []byte("group"), []byte("alice"), []byte("bob")

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set(k, v))
	assert.Nil(t, cache.Write())

	// written, but not committed
	got, err := commit.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)

	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)

	got, err = commit.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)

	// discarded changes never reach the tree
	cache = commit.CacheWrap()
	assert.Nil(t, cache.Set(k, v2))
	cache.Discard()
	id2, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id2.Version)
	assert.Equal(t, id.Hash, id2.Hash)

	latest, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id2, latest)
}

func TestMemCommitStore(t *testing.T) {
	commit := NewMemCommitStore()
	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("a"), []byte("1")))
	assert.Nil(t, cache.Write())
	_, err := commit.Commit()
	assert.Nil(t, err)

	got, err := commit.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), got)
}
