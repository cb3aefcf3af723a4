package ledger

import "time"

// GenesisPreviousHash is the sentinel linkage of block 0.
const GenesisPreviousHash = "0"

// GenesisMessage is the fixed payload message of block 0.
const GenesisMessage = "Genesis Block - Nyaya Sahayak"

// Block is one hash-chained ledger entry.
//
// Invariant: for Index > 0, PreviousHash equals the stored Hash of block
// Index-1 and Hash equals the digest of (Index, Timestamp, Payload,
// PreviousHash, Nonce).
type Block struct {
	Index        int            `json:"index"`
	Timestamp    time.Time      `json:"timestamp"`
	Payload      map[string]any `json:"payload"`
	Hash         string         `json:"hash"`
	PreviousHash string         `json:"previous_hash"`
	// Nonce is structural only; there is no proof of work.
	Nonce int `json:"nonce"`
}

// AppendResult is returned for every committed block.
type AppendResult struct {
	Index         int    `json:"index"`
	BlockHash     string `json:"block_hash"`
	TransactionID string `json:"transaction_id"`
}

// IntegrityReport summarizes a full chain walk.
type IntegrityReport struct {
	IsValid         bool      `json:"is_valid"`
	TotalBlocks     int       `json:"total_blocks"`
	CorruptedBlocks []int     `json:"corrupted_blocks"`
	CheckedAt       time.Time `json:"checked_at"`
}

// RecordVerification reports whether the block carrying a record id is authentic.
type RecordVerification struct {
	RecordID     string    `json:"record_id"`
	Found        bool      `json:"found"`
	IsAuthentic  bool      `json:"is_authentic"`
	Tampered     bool      `json:"tampered"`
	OriginalHash string    `json:"original_hash"`
	CurrentHash  string    `json:"current_hash"`
	BlockIndex   int       `json:"block_index"`
	CheckedAt    time.Time `json:"checked_at"`
}

// hashInput is the exact tuple covered by a block hash.
type hashInput struct {
	Index        int            `json:"index"`
	Timestamp    time.Time      `json:"timestamp"`
	Payload      map[string]any `json:"payload"`
	PreviousHash string         `json:"previous_hash"`
	Nonce        int            `json:"nonce"`
}

func (b *Block) hashInput() hashInput {
	return hashInput{
		Index:        b.Index,
		Timestamp:    b.Timestamp,
		Payload:      b.Payload,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
	}
}

// RecordID returns the payload "id" field, if any.
func (b *Block) RecordID() string {
	if b.Payload == nil {
		return ""
	}
	id, _ := b.Payload["id"].(string)
	return id
}
