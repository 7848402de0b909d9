// Package view holds pure presentation mappings. Nothing here feeds back
// into reconstruction; callers apply these at the output boundary only.
package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// PositionRow is the exportable per-position report row.
type PositionRow struct {
	PositionID      uint64          `csv:"position_id"`
	Validator       string          `csv:"validator"`
	Owner           string          `csv:"owner"`
	NetDeposited    decimal.Decimal `csv:"net_deposited"`
	StakeWeight     decimal.Decimal `csv:"stake_weight"`
	ExpiryTimestamp uint64          `csv:"expiry_ts"`
	ExpiryUTC       string          `csv:"expiry_utc"`
	UnlockRemaining string          `csv:"unlock_remaining"`
}

// BuildPositionRows maps active positions into report rows sorted by net
// deposited descending, position id ascending on ties.
func BuildPositionRows(positions *model.PositionTable, now uint64) []PositionRow {
	active := positions.Active()
	rows := make([]PositionRow, 0, len(active))
	for _, p := range active {
		owner := p.Owner
		if owner == "" {
			owner = model.UnknownOwner
		}
		rows = append(rows, PositionRow{
			PositionID:      p.ID,
			Validator:       p.Validator,
			Owner:           owner,
			NetDeposited:    p.NetDeposited(),
			StakeWeight:     p.StakeWeight(),
			ExpiryTimestamp: p.Expiry,
			ExpiryUTC:       UTCMinute(p.Expiry),
			UnlockRemaining: FormatUnlock(p.Expiry, now),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].NetDeposited.Equal(rows[j].NetDeposited) {
			return rows[i].NetDeposited.GreaterThan(rows[j].NetDeposited)
		}
		return rows[i].PositionID < rows[j].PositionID
	})

	return rows
}

// FormatUnlock renders the remaining lock time as a countdown.
func FormatUnlock(expiry, now uint64) string {
	if expiry <= now {
		return "UNLOCKED"
	}
	remaining := expiry - now
	days := remaining / 86400
	hours := (remaining % 86400) / 3600
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh", hours)
}

// UTCDate renders a unix timestamp as a UTC date.
func UTCDate(ts uint64) string {
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02")
}

// UTCMinute renders a unix timestamp as a UTC date with minute precision.
func UTCMinute(ts uint64) string {
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02 15:04")
}

// ShortAddr abbreviates a hex address for table display.
func ShortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
