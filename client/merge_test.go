package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergePropsOverwritesOnlyIncludedKeys(t *testing.T) {
	prev := map[string]interface{}{"a": 1, "b": 2}
	partial := map[string]interface{}{"a": 5}

	merged := MergeProps(prev, partial)

	assert.Equal(t, map[string]interface{}{"a": 5, "b": 2}, merged)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, prev, "previous state untouched")
}

func TestMergePropsEmptyPartialIsNoOp(t *testing.T) {
	prev := map[string]interface{}{"a": 1, "b": 2}

	merged := MergeProps(prev, map[string]interface{}{})

	assert.Equal(t, prev, merged)
}

func TestMergePropsShallow(t *testing.T) {
	prev := map[string]interface{}{
		"user": map[string]interface{}{"id": "u-1", "name": "old"},
	}
	partial := map[string]interface{}{
		"user": map[string]interface{}{"id": "u-1"},
	}

	merged := MergeProps(prev, partial)

	// key-wise overwrite, not a deep merge
	assert.Equal(t, map[string]interface{}{"id": "u-1"}, merged["user"])
}
