package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIVersion(t *testing.T) {
	v, err := ParseAPIVersion("v1")
	require.NoError(t, err)
	assert.Equal(t, APIVersionV1, v)

	_, err = ParseAPIVersion("v7")
	assert.Error(t, err)
	_, err = ParseAPIVersion("")
	assert.Error(t, err)

	assert.True(t, APIVersionV1.IsAtLeast(APIVersionV1))
	assert.True(t, APIVersionV1.IsAtLeast("v9"), "unknown token versions are outranked")
	assert.False(t, APIVersion("v9").IsAtLeast(APIVersionV1))
	assert.True(t, APIVersion("").IsNil())
}
