package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<prefix>:<sha256>" over an input hash and the JSON form of
// the options that change the result. Option structs marshal with fixed field
// order, so equal options give equal keys.
func hashKey(prefix, input string, opts any) string {
	raw, err := json.Marshal(opts)
	if err != nil {
		raw = []byte(err.Error())
	}
	return prefix + ":" + Hash(append([]byte(input+"\x00"), raw...))
}
