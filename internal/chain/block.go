package chain

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

const (
	// GenesisData is the payload of the fixed first block of every chain.
	GenesisData = "Genesis Block"

	// GenesisPrevHash is the sentinel predecessor hash of the genesis block.
	GenesisPrevHash = "0000000000000000000000000000000000000000000000000000000000000000"
)

// Block is one sealed unit of data in the chain. All fields are fixed at
// mining time; Hash is always the digest of the other five fields.
type Block struct {
	Index     uint64 `json:"index"`
	Timestamp int64  `json:"timestamp"`
	Data      []byte `json:"data"`
	PrevHash  string `json:"previous_hash"`
	Nonce     uint64 `json:"nonce"`
	Hash      string `json:"hash"`
}

// ComputeHash returns the hex-encoded SHA-256 digest of the block fields.
// The preimage is the five fields in chain order, integers as 8-byte
// big-endian values and the payload length-prefixed, so the same inputs
// always produce the same digest.
func ComputeHash(index uint64, timestamp int64, data []byte, prevHash string, nonce uint64) string {
	var buf bytes.Buffer
	var scratch [8]byte

	binary.BigEndian.PutUint64(scratch[:], index)
	buf.Write(scratch[:])
	binary.BigEndian.PutUint64(scratch[:], uint64(timestamp))
	buf.Write(scratch[:])
	binary.BigEndian.PutUint64(scratch[:], uint64(len(data)))
	buf.Write(scratch[:])
	buf.Write(data)
	buf.WriteString(prevHash)
	binary.BigEndian.PutUint64(scratch[:], nonce)
	buf.Write(scratch[:])

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// ComputeHash recomputes the digest from the block's own fields.
func (b *Block) ComputeHash() string {
	return ComputeHash(b.Index, b.Timestamp, b.Data, b.PrevHash, b.Nonce)
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	c := *b
	c.Data = append([]byte(nil), b.Data...)
	return &c
}

// DifficultyPrefix returns the hex prefix a digest must carry to satisfy
// the given difficulty.
func DifficultyPrefix(difficulty int) string {
	return strings.Repeat("0", difficulty)
}

// MeetsDifficulty reports whether the digest has at least `difficulty`
// leading zero hex characters.
func MeetsDifficulty(hash string, difficulty int) bool {
	return strings.HasPrefix(hash, DifficultyPrefix(difficulty))
}

// NewBlock mines a sealed block from the given candidate fields. The
// returned block's hash satisfies the difficulty predicate of opts.
func NewBlock(ctx context.Context, index uint64, timestamp int64, data []byte, prevHash string, opts Options) (*Block, error) {
	return newMiner(opts.withDefaults()).mine(ctx, index, timestamp, data, prevHash)
}
