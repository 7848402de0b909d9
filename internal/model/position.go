package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the fixed-point scale of all token amounts.
const TokenDecimals = 18

// Position is one staking commitment. ID, Expiry and Validator are set at
// creation; Owner follows the latest observed transfer; balances follow
// deposits and withdrawals. Positions are never deleted, a fully withdrawn
// position stays in the table and is filtered out at aggregation time.
type Position struct {
	ID              uint64
	Expiry          uint64
	Validator       string
	Owner           string
	NetDepositedRaw *big.Int
	StakeWeightRaw  *big.Int
}

// NewPosition returns a Position with zero balances and no owner.
func NewPosition(id, expiry uint64, validator string) *Position {
	return &Position{
		ID:              id,
		Expiry:          expiry,
		Validator:       validator,
		NetDepositedRaw: new(big.Int),
		StakeWeightRaw:  new(big.Int),
	}
}

// NetDeposited is the scaled net deposited balance.
func (p *Position) NetDeposited() decimal.Decimal {
	return ScaleAmount(p.NetDepositedRaw)
}

// StakeWeight is the scaled accumulated stake weight.
func (p *Position) StakeWeight() decimal.Decimal {
	return ScaleAmount(p.StakeWeightRaw)
}

// Active reports whether the position still holds principal.
func (p *Position) Active() bool {
	return p.NetDepositedRaw.Sign() > 0
}

// ScaleAmount converts undivided token units into an exact 18-decimal value.
func ScaleAmount(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -TokenDecimals)
}

// PositionTable maps position ids to positions while preserving insertion
// order, so iteration and downstream grouping stay deterministic.
type PositionTable struct {
	byID  map[uint64]*Position
	order []uint64
}

// NewPositionTable returns an empty table.
func NewPositionTable() *PositionTable {
	return &PositionTable{byID: make(map[uint64]*Position)}
}

// Get returns the position for id, or nil.
func (t *PositionTable) Get(id uint64) *Position {
	return t.byID[id]
}

// Put inserts or replaces the position under its id. A replaced id keeps its
// original slot in the iteration order.
func (t *PositionTable) Put(p *Position) {
	if _, exists := t.byID[p.ID]; !exists {
		t.order = append(t.order, p.ID)
	}
	t.byID[p.ID] = p
}

// Len returns the number of positions, inactive ones included.
func (t *PositionTable) Len() int {
	return len(t.byID)
}

// All returns positions in insertion order.
func (t *PositionTable) All() []*Position {
	out := make([]*Position, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// Active returns positions with remaining principal, in insertion order.
func (t *PositionTable) Active() []*Position {
	out := make([]*Position, 0, len(t.order))
	for _, id := range t.order {
		if p := t.byID[id]; p.Active() {
			out = append(out, p)
		}
	}
	return out
}
