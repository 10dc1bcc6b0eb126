// Package anchor computes Anchor account discriminators: the 8-byte
// sha256("account:<Name>") prefix every Anchor zero-copy account is tagged
// with on-chain, used here to validate/stamp the record tag codec.go reads
// and writes. The teacher's version took a generic namespace argument for
// both account and instruction discriminators; this module only ever
// decodes accounts, so the namespace is hardcoded rather than carried as a
// parameter nothing varies.
package anchor

import "crypto/sha256"

// AccountDiscriminator returns the 8-byte sha256("account:<name>") prefix
// Anchor stamps on a zero-copy account of the given type name.
func AccountDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	return hash[:8]
}
