package project

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// Result is the output of one projection: the position table and the
// per-event net-flow series with its running cumulative sum.
type Result struct {
	Positions *model.PositionTable
	Flows     []model.NetFlowSample
}

// OrderingError reports an event sequence that is not block-ascending with
// intra-block order preserved. Folding such a sequence would produce an
// incorrect ledger, so the projector fails fast instead.
type OrderingError struct {
	Index     int
	PrevBlock uint64
	PrevLog   uint64
	Block     uint64
	Log       uint64
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("event %d out of order: block %d log %d after block %d log %d",
		e.Index, e.Block, e.Log, e.PrevBlock, e.PrevLog)
}

// SortEvents orders a merged multi-kind event stream by
// (block number, log index). The sort is stable so records sharing both
// keys keep their input order.
func SortEvents(events []model.TypedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber < events[j].BlockNumber
		}
		return events[i].LogIndex < events[j].LogIndex
	})
}

// Project folds an ordered event sequence into position state and the
// net-flow series. The fold is pure left-to-right: replaying the same
// sequence from empty state reproduces the result exactly.
//
// Transition rules:
//   - PositionCreated inserts a position. A duplicate id overwrites the
//     creation-time fields instead of erroring; this mirrors the upstream
//     contract's observed behavior and is deliberate, not data loss.
//   - OwnershipTransferred sets the owner unconditionally, last transfer
//     in block order wins.
//   - FundsDeposited / FundsWithdrawn adjust balances for known ids and
//     always contribute a signed net-flow sample, known id or not.
//   - Reward events never touch positions and contribute zero flow.
//
// Mutation events for a never-created id are silent no-ops, since a fetch
// window may exclude that position's creation event.
func Project(events []model.TypedEvent) (Result, error) {
	if err := validateOrder(events); err != nil {
		return Result{}, err
	}

	positions := model.NewPositionTable()
	flows := make([]model.NetFlowSample, 0, len(events))
	cumulative := decimal.Zero

	appendFlow := func(event model.TypedEvent, amount, netFlow decimal.Decimal) {
		cumulative = cumulative.Add(netFlow)
		flows = append(flows, model.NetFlowSample{
			BlockNumber: event.BlockNumber,
			Timestamp:   event.Timestamp,
			TxHash:      event.TxHash,
			LogIndex:    event.LogIndex,
			Kind:        event.Kind,
			Amount:      amount,
			NetFlow:     netFlow,
			Cumulative:  cumulative,
		})
	}

	for _, event := range events {
		switch data := event.Data.(type) {
		case model.PositionCreatedData:
			if existing := positions.Get(data.PositionID); existing != nil {
				existing.Expiry = data.Expiry
				existing.Validator = data.Validator
				continue
			}
			positions.Put(model.NewPosition(data.PositionID, data.Expiry, data.Validator))

		case model.OwnershipTransferredData:
			if p := positions.Get(data.PositionID); p != nil {
				p.Owner = data.NewOwner
			}

		case model.FundsDepositedData:
			if p := positions.Get(data.PositionID); p != nil {
				p.NetDepositedRaw.Add(p.NetDepositedRaw, data.FundsAddedRaw)
				p.StakeWeightRaw.Add(p.StakeWeightRaw, data.StakeAddedRaw)
			}
			appendFlow(event, data.FundsAdded, data.FundsAdded)

		case model.FundsWithdrawnData:
			if p := positions.Get(data.PositionID); p != nil {
				p.NetDepositedRaw.Sub(p.NetDepositedRaw, data.FundsRemovedRaw)
			}
			appendFlow(event, data.FundsRemoved, data.FundsRemoved.Neg())

		case model.RewardsIssuedData:
			appendFlow(event, data.Amount, decimal.Zero)

		case model.RewardsWithdrawnData:
			appendFlow(event, data.Amount, decimal.Zero)

		default:
			return Result{}, fmt.Errorf("unsupported event payload %T", event.Data)
		}
	}

	return Result{Positions: positions, Flows: flows}, nil
}

func validateOrder(events []model.TypedEvent) error {
	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if cur.BlockNumber < prev.BlockNumber ||
			(cur.BlockNumber == prev.BlockNumber && cur.LogIndex < prev.LogIndex) {
			return &OrderingError{
				Index:     i,
				PrevBlock: prev.BlockNumber,
				PrevLog:   prev.LogIndex,
				Block:     cur.BlockNumber,
				Log:       cur.LogIndex,
			}
		}
	}
	return nil
}
