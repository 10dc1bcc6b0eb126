package anchor

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountDiscriminatorMatchesAnchorConvention(t *testing.T) {
	want := sha256.Sum256([]byte("account:LbPair"))
	assert.Equal(t, want[:8], AccountDiscriminator("LbPair"))
}

func TestAccountDiscriminatorVariesByName(t *testing.T) {
	assert.NotEqual(t, AccountDiscriminator("LbPair"), AccountDiscriminator("BinArray"))
}
