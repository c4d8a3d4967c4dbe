package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func token(n byte) TokenId {
	var t TokenId
	t[19] = n
	return t
}

func TestPairIdIsDirectionIndependent(t *testing.T) {
	a, b := token(1), token(2)
	assert.Equal(t, NewPair(a, b).Id(), NewPair(b, a).Id())
}

func TestPairInverseAndContains(t *testing.T) {
	a, b := token(1), token(2)
	pair := NewPair(a, b)

	assert.True(t, pair.Contains(a))
	assert.True(t, pair.Contains(b))
	assert.False(t, pair.Contains(token(3)))

	other, ok := pair.OtherToken(a)
	assert.True(t, ok)
	assert.Equal(t, b, other)

	_, ok = pair.OtherToken(token(3))
	assert.False(t, ok)

	assert.Equal(t, NewPair(b, a), pair.Inverse())
}
