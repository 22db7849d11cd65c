package schain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func(c string) { GitCommit = c }(GitCommit)

	GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", Version())

	GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", Version())
}
