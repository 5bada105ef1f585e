package nexus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := Version()
	assert.NotEmpty(t, v)
	assert.Contains(t, v, "alpha")
	assert.Equal(t, v, Version(), "version is stable within a build")
}
