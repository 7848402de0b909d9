package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// EventKind names one of the tracked contract events.
type EventKind string

const (
	KindPositionCreated      EventKind = "PositionCreated"
	KindFundsDeposited       EventKind = "FundsDeposited"
	KindFundsWithdrawn       EventKind = "FundsWithdrawn"
	KindRewardsIssued        EventKind = "RewardsIssued"
	KindRewardsWithdrawn     EventKind = "RewardsWithdrawn"
	KindOwnershipTransferred EventKind = "OwnershipTransferred"
)

// Kinds lists every tracked event kind in fetch order.
func Kinds() []EventKind {
	return []EventKind{
		KindPositionCreated,
		KindFundsDeposited,
		KindFundsWithdrawn,
		KindRewardsIssued,
		KindRewardsWithdrawn,
		KindOwnershipTransferred,
	}
}

// PositionScoped reports whether events of this kind reference a position id
// and therefore feed per-position accounting. Reward events are
// informational only.
func (k EventKind) PositionScoped() bool {
	switch k {
	case KindRewardsIssued, KindRewardsWithdrawn:
		return false
	default:
		return true
	}
}

// TypedEvent is one decoded contract event. Ordering key across the merged
// stream is (BlockNumber, LogIndex); ties within a block keep source order.
type TypedEvent struct {
	Kind        EventKind
	BlockNumber uint64
	Timestamp   uint64
	TxHash      string
	LogIndex    uint64
	Data        interface{}
}

// PositionCreatedData carries the immutable position attributes.
type PositionCreatedData struct {
	PositionID uint64
	Expiry     uint64
	Validator  string
}

// FundsDepositedData carries a deposit. Raw values are undivided token
// units; the decimal fields are scaled by the token's 18 decimals.
type FundsDepositedData struct {
	PositionID    uint64
	FundsAddedRaw *big.Int
	FundsAdded    decimal.Decimal
	StakeAddedRaw *big.Int
	StakeAdded    decimal.Decimal
}

// FundsWithdrawnData carries a withdrawal.
type FundsWithdrawnData struct {
	PositionID      uint64
	FundsRemovedRaw *big.Int
	FundsRemoved    decimal.Decimal
}

// RewardsIssuedData carries a validator reward grant. No position
// association.
type RewardsIssuedData struct {
	Validator string
	AmountRaw *big.Int
	Amount    decimal.Decimal
}

// RewardsWithdrawnData carries a reward payout. No position association.
type RewardsWithdrawnData struct {
	To        string
	AmountRaw *big.Int
	Amount    decimal.Decimal
}

// OwnershipTransferredData carries an ERC-721 transfer of a position.
type OwnershipTransferredData struct {
	PositionID uint64
	From       string
	NewOwner   string
}
