// Package ledger is an in-memory, append-only, hash-chained record of case
// submissions used for tamper evidence.
//
// A Ledger has exactly one mutable owner per process: construct it once at
// startup and inject it where needed. Mutations are serialized internally.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"nyaya/internal/digest"
	"nyaya/internal/ledger/metrics"
)

// Ledger holds the chain.
type Ledger struct {
	mu      sync.RWMutex
	chain   []Block
	hasher  digest.Hasher
	clock   func() time.Time
	newTxID func() string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the block timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger sets a logger for append and verification events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// New creates a ledger seeded with its genesis block.
func New(hasher digest.Hasher, opts ...Option) (*Ledger, error) {
	if hasher == nil {
		hasher = digest.SHA256()
	}
	l := &Ledger{
		hasher:  hasher,
		clock:   time.Now,
		newTxID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.initGenesis(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) initGenesis() error {
	genesis := Block{
		Index:        0,
		Timestamp:    l.now(),
		Payload:      map[string]any{"message": GenesisMessage},
		PreviousHash: GenesisPreviousHash,
	}
	h, err := l.hasher.Sum(genesis.hashInput())
	if err != nil {
		return fmt.Errorf("hash genesis block: %w", err)
	}
	genesis.Hash = h
	l.chain = []Block{genesis}
	return nil
}

// Reset drops every block and recreates the genesis block.
func (l *Ledger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initGenesis()
}

// Append commits payload as a new block linked to the current tail.
// The payload is normalized through JSON so later mutation by the caller
// cannot reach the chain.
func (l *Ledger) Append(ctx context.Context, payload map[string]any) (AppendResult, error) {
	return l.AppendWithID(ctx, "", payload)
}

// AppendWithID is Append with a transaction id chosen by the caller, so the
// id can be stored alongside the record before the block is written. An empty
// id gets a generated one.
func (l *Ledger) AppendWithID(ctx context.Context, transactionID string, payload map[string]any) (AppendResult, error) {
	normalized, err := normalizePayload(payload)
	if err != nil {
		return AppendResult{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tail := l.chain[len(l.chain)-1]
	block := Block{
		Index:        tail.Index + 1,
		Timestamp:    l.now(),
		Payload:      normalized,
		PreviousHash: tail.Hash,
	}
	h, err := l.hasher.Sum(block.hashInput())
	if err != nil {
		return AppendResult{}, fmt.Errorf("hash block %d: %w", block.Index, err)
	}
	block.Hash = h
	l.chain = append(l.chain, block)

	res := AppendResult{
		Index:         block.Index,
		BlockHash:     block.Hash,
		TransactionID: transactionID,
	}
	if res.TransactionID == "" {
		res.TransactionID = l.newTxID()
	}
	l.metrics.IncBlocksAppended()
	if l.logger != nil {
		l.logger.InfoContext(ctx, "ledger block appended",
			"index", block.Index,
			"record_id", block.RecordID(),
			"transaction_id", res.TransactionID,
		)
	}
	return res, nil
}

// VerifyChain walks the chain from block 1, flagging any block whose stored
// hash no longer matches its contents or whose linkage to the previous block
// is broken. Each corrupted index is reported once.
func (l *Ledger) VerifyChain() IntegrityReport {
	report := l.Check()
	l.metrics.ObserveIntegrityCheck(report.IsValid, len(report.CorruptedBlocks))
	if !report.IsValid && l.logger != nil {
		l.logger.Warn("ledger integrity check failed",
			"total_blocks", report.TotalBlocks,
			"corrupted_blocks", report.CorruptedBlocks,
		)
	}
	return report
}

// Check walks the chain like VerifyChain but records no metrics and logs
// nothing. Health checks use it.
func (l *Ledger) Check() IntegrityReport {
	l.mu.RLock()
	defer l.mu.RUnlock()

	report := IntegrityReport{
		IsValid:         true,
		TotalBlocks:     len(l.chain),
		CorruptedBlocks: []int{},
		CheckedAt:       l.now(),
	}
	for i := 1; i < len(l.chain); i++ {
		current := &l.chain[i]
		previous := &l.chain[i-1]

		if !l.hashMatches(current) {
			report.IsValid = false
			report.CorruptedBlocks = append(report.CorruptedBlocks, current.Index)
		}
		if current.PreviousHash != previous.Hash {
			report.IsValid = false
			if !slices.Contains(report.CorruptedBlocks, current.Index) {
				report.CorruptedBlocks = append(report.CorruptedBlocks, current.Index)
			}
		}
	}
	return report
}

// VerifyRecord locates the first block whose payload id equals recordID and
// recomputes its hash. A missing record is reported as not authentic.
func (l *Ledger) VerifyRecord(recordID string) RecordVerification {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := RecordVerification{
		RecordID:   recordID,
		BlockIndex: -1,
		Tampered:   true,
		CheckedAt:  l.now(),
	}
	for i := range l.chain {
		block := &l.chain[i]
		if block.RecordID() != recordID {
			continue
		}
		current, err := l.hasher.Sum(block.hashInput())
		if err != nil {
			current = ""
		}
		result.Found = true
		result.BlockIndex = block.Index
		result.OriginalHash = block.Hash
		result.CurrentHash = current
		result.IsAuthentic = current != "" && digest.Equal(current, block.Hash)
		result.Tampered = !result.IsAuthentic
		break
	}
	l.metrics.IncRecordVerification(result.IsAuthentic)
	return result
}

// Health fails while the chain is corrupted. It uses Check, so polling it
// leaves the integrity metrics and logs alone.
func (l *Ledger) Health(context.Context) error {
	if report := l.Check(); !report.IsValid {
		return fmt.Errorf("corrupted blocks %v", report.CorruptedBlocks)
	}
	return nil
}

// Tamper mutates a block's payload in place without rehashing, the way an
// attacker editing storage would. It exists for demonstrations and tests of
// the verifier. The genesis block is never rechecked, so it cannot be
// tampered with; it and out-of-range indexes are ignored.
func (l *Ledger) Tamper(index int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 1 || index >= len(l.chain) {
		return false
	}
	payload := clonePayload(l.chain[index].Payload)
	payload["tampered"] = true
	l.chain[index].Payload = payload
	return true
}

// Blocks returns a copy of the chain.
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Block, len(l.chain))
	for i, b := range l.chain {
		b.Payload = clonePayload(b.Payload)
		out[i] = b
	}
	return out
}

// Len returns the number of blocks including genesis.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chain)
}

// Head returns the tail block hash.
func (l *Ledger) Head() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chain[len(l.chain)-1].Hash
}

// Algorithm reports the configured digest algorithm.
func (l *Ledger) Algorithm() string {
	return l.hasher.Algorithm()
}

func (l *Ledger) hashMatches(b *Block) bool {
	ok, err := digest.Verify(l.hasher, b.hashInput(), b.Hash)
	return err == nil && ok
}

func (l *Ledger) now() time.Time {
	return l.clock().UTC()
}

// normalizePayload round-trips payload through JSON so the chain only holds
// plain maps, slices, strings, booleans and json.Numbers.
func normalizePayload(payload map[string]any) (map[string]any, error) {
	if payload == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal ledger payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ledger payload: %w", err)
	}
	return out, nil
}

func clonePayload(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return clonePayload(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
