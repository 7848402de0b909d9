package view

import (
	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// OwnerRow is the exportable top-stakers report row with human-readable
// unlock columns alongside the raw timestamps.
type OwnerRow struct {
	Rank                    int             `csv:"rank"`
	Owner                   string          `csv:"owner"`
	TotalStaked             decimal.Decimal `csv:"total_staked"`
	TotalStakeWeight        decimal.Decimal `csv:"total_stake_weight"`
	NumPositions            int             `csv:"num_positions"`
	SharePct                decimal.Decimal `csv:"share_pct"`
	EarliestUnlockUTC       string          `csv:"earliest_unlock_utc"`
	EarliestUnlockRemaining string          `csv:"earliest_unlock_remaining"`
	LatestUnlockUTC         string          `csv:"latest_unlock_utc"`
	LatestUnlockRemaining   string          `csv:"latest_unlock_remaining"`
}

// BuildOwnerRows maps ranked owner summaries into report rows.
func BuildOwnerRows(summaries []model.OwnerSummary, now uint64) []OwnerRow {
	rows := make([]OwnerRow, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, OwnerRow{
			Rank:                    summary.Rank,
			Owner:                   summary.Owner,
			TotalStaked:             summary.TotalStaked,
			TotalStakeWeight:        summary.TotalStakeWeight,
			NumPositions:            summary.NumPositions,
			SharePct:                summary.Share.Round(2),
			EarliestUnlockUTC:       UTCDate(summary.EarliestUnlock),
			EarliestUnlockRemaining: FormatUnlock(summary.EarliestUnlock, now),
			LatestUnlockUTC:         UTCDate(summary.LatestUnlock),
			LatestUnlockRemaining:   FormatUnlock(summary.LatestUnlock, now),
		})
	}
	return rows
}
