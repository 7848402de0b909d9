package model

import "github.com/shopspring/decimal"

// UnknownOwner keys positions that never saw an ownership transfer. They are
// grouped under this sentinel rather than merged into any real address.
const UnknownOwner = "(unknown)"

// OwnerSummary is the aggregate over all active positions held by one
// owner. Derived data: recomputed in full from a position table snapshot,
// never incrementally maintained.
type OwnerSummary struct {
	Rank             int             `json:"rank" csv:"rank"`
	Owner            string          `json:"owner" csv:"owner"`
	TotalStaked      decimal.Decimal `json:"total_staked" csv:"total_staked"`
	TotalStakeWeight decimal.Decimal `json:"total_stake_weight" csv:"total_stake_weight"`
	NumPositions     int             `json:"num_positions" csv:"num_positions"`
	EarliestUnlock   uint64          `json:"earliest_unlock" csv:"earliest_unlock"`
	LatestUnlock     uint64          `json:"latest_unlock" csv:"latest_unlock"`
	Share            decimal.Decimal `json:"share_pct" csv:"share_pct"`
}

// RunTotals summarizes system-wide flow volumes for one reconstruction run.
type RunTotals struct {
	TotalDeposited        decimal.Decimal `json:"total_deposited"`
	TotalWithdrawn        decimal.Decimal `json:"total_withdrawn"`
	TotalRewardsIssued    decimal.Decimal `json:"total_rewards_issued"`
	TotalRewardsWithdrawn decimal.Decimal `json:"total_rewards_withdrawn"`
	NetStaked             decimal.Decimal `json:"net_staked"`
	NumDeposits           int             `json:"num_deposits"`
	NumWithdrawals        int             `json:"num_withdrawals"`
}
