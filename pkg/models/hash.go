package models

import (
	"crypto/md5"
	"hash"

	"github.com/zeebo/blake3"
)

// HashAlgorithm selects the digest used for content hashes. MD5 is the
// default so digests stay comparable with earlier runs; blake3 is the
// faster opt-in.
type HashAlgorithm string

const (
	HashMD5    HashAlgorithm = "md5"
	HashBlake3 HashAlgorithm = "blake3"
)

// Valid reports whether the algorithm name is recognized
func (a HashAlgorithm) Valid() bool {
	return a == HashMD5 || a == HashBlake3
}

func (a HashAlgorithm) newHash() hash.Hash {
	if a == HashBlake3 {
		return blake3.New()
	}
	return md5.New()
}
