package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	s := string(Stack(1))
	assert.True(t, strings.HasPrefix(s, "github.com/x-xyz/nftauction/base/utils.TestStack"), s)
	assert.Contains(t, s, "stack_test.go")
}
