package rank

import (
	"sort"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summarize folds a finished position table snapshot into ranked owner
// summaries. Only active positions (net deposited > 0) count; a position
// with no recorded owner is grouped under the unknown-owner sentinel and
// never merged into a real address. Output order is total staked
// descending with lexical owner order as the deterministic tie-break,
// rank is dense and 1-based.
func Summarize(positions *model.PositionTable) []model.OwnerSummary {
	groups := make(map[string]*model.OwnerSummary)
	order := make([]string, 0)

	for _, p := range positions.Active() {
		owner := p.Owner
		if owner == "" {
			owner = model.UnknownOwner
		}

		summary := groups[owner]
		if summary == nil {
			summary = &model.OwnerSummary{
				Owner:          owner,
				EarliestUnlock: p.Expiry,
				LatestUnlock:   p.Expiry,
			}
			groups[owner] = summary
			order = append(order, owner)
		}

		summary.TotalStaked = summary.TotalStaked.Add(p.NetDeposited())
		summary.TotalStakeWeight = summary.TotalStakeWeight.Add(p.StakeWeight())
		summary.NumPositions++
		if p.Expiry < summary.EarliestUnlock {
			summary.EarliestUnlock = p.Expiry
		}
		if p.Expiry > summary.LatestUnlock {
			summary.LatestUnlock = p.Expiry
		}
	}

	out := make([]model.OwnerSummary, 0, len(order))
	grand := decimal.Zero
	for _, owner := range order {
		out = append(out, *groups[owner])
		grand = grand.Add(groups[owner].TotalStaked)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TotalStaked.Equal(out[j].TotalStaked) {
			return out[i].TotalStaked.GreaterThan(out[j].TotalStaked)
		}
		return out[i].Owner < out[j].Owner
	})

	for i := range out {
		out[i].Rank = i + 1
		if grand.IsPositive() {
			out[i].Share = out[i].TotalStaked.Mul(hundred).Div(grand)
		}
	}

	return out
}

// Totals sums flow volumes for one run: deposits, withdrawals, reward
// traffic, and the resulting net staked principal.
func Totals(flows []model.NetFlowSample) model.RunTotals {
	var totals model.RunTotals
	for _, sample := range flows {
		switch sample.Kind {
		case model.KindFundsDeposited:
			totals.TotalDeposited = totals.TotalDeposited.Add(sample.Amount)
			totals.NumDeposits++
		case model.KindFundsWithdrawn:
			totals.TotalWithdrawn = totals.TotalWithdrawn.Add(sample.Amount)
			totals.NumWithdrawals++
		case model.KindRewardsIssued:
			totals.TotalRewardsIssued = totals.TotalRewardsIssued.Add(sample.Amount)
		case model.KindRewardsWithdrawn:
			totals.TotalRewardsWithdrawn = totals.TotalRewardsWithdrawn.Add(sample.Amount)
		}
	}
	totals.NetStaked = totals.TotalDeposited.Sub(totals.TotalWithdrawn)
	return totals
}
