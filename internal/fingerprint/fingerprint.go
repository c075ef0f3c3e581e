package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
)

// DefaultLockingScript is the placeholder access-control descriptor attached
// to records that were minted without an explicit script. It is never
// evaluated; it only stands in for a real locking predicate.
const DefaultLockingScript = "OP_DUP OP_HASH160 ... OP_EQUALVERIFY OP_CHECKSIG"

// Digest computes the SHA-256 hash of message and returns it as 64 lowercase
// hex characters.
func Digest(message []byte) string {
	sum := sha256.Sum256(message)
	return hex.EncodeToString(sum[:])
}

// DoubleDigest hashes message, then hashes the hex string of the first
// result. The second pass runs over the hex text, not the raw digest bytes;
// compatible implementations in other languages depend on this exact
// convention.
func DoubleDigest(message []byte) string {
	return Digest([]byte(Digest(message)))
}

// Receipt is the result of a simulated network broadcast.
type Receipt struct {
	TxID string `json:"txId"`
	Fee  int    `json:"fee"`
}

// Broadcast derives a synthetic transaction id and fee for payload. The id is
// the double digest of the JSON encoding of payload concatenated with salt;
// callers must supply a salt that is unique per call (e.g. the current time
// in milliseconds) so that identical payloads still yield distinct ids.
//
// Payloads are serialized with encoding/json; a payload that cannot be
// marshalled is a caller error and is returned as such. The fee is a cosmetic
// estimate, floor(0.5 * size) for a pseudo-random size in [200, 600) bytes,
// and carries no real-world meaning.
func Broadcast(payload any, salt string) (Receipt, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, fmt.Errorf("fingerprint: payload not serializable: %w", err)
	}

	txID := DoubleDigest(append(raw, salt...))

	size := 200 + rand.Intn(400)
	return Receipt{TxID: txID, Fee: size / 2}, nil
}

// NewWalletAddress returns a mock wallet address for display purposes.
func NewWalletAddress() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("1%s...BSV", b)
}
