package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveEmptyStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, RemoveEmptyStrings([]string{"", "a", "", "b"}))
	assert.Nil(t, RemoveEmptyStrings([]string{""}))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"iiw", "crefnet"}, Dedupe([]string{"iiw", "crefnet", "iiw"}))
	assert.Empty(t, Dedupe(nil))
}
