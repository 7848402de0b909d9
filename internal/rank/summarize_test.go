package rank

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

var tokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(model.TokenDecimals), nil)

func position(id uint64, owner string, net, stake int64, expiry uint64) *model.Position {
	p := model.NewPosition(id, expiry, "v1")
	p.Owner = owner
	p.NetDepositedRaw = new(big.Int).Mul(big.NewInt(net), tokenUnit)
	p.StakeWeightRaw = new(big.Int).Mul(big.NewInt(stake), tokenUnit)
	return p
}

func table(ps ...*model.Position) *model.PositionTable {
	t := model.NewPositionTable()
	for _, p := range ps {
		t.Put(p)
	}
	return t
}

func TestSummarizeExcludesInactivePositions(t *testing.T) {
	summaries := Summarize(table(
		position(1, "0xA", 100, 100, 50),
		position(2, "0xA", 0, 100, 60),
		position(3, "0xB", -25, 0, 70),
	))

	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.Owner != "0xA" || s.NumPositions != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.TotalStaked.String() != "100" {
		t.Fatalf("total staked %s, want 100", s.TotalStaked)
	}
}

func TestSummarizeGroupsUnknownOwnerSeparately(t *testing.T) {
	summaries := Summarize(table(
		position(1, "", 40, 40, 10),
		position(2, "0xA", 30, 30, 10),
		position(3, "", 20, 20, 10),
	))

	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Owner != model.UnknownOwner {
		t.Fatalf("expected unknown-owner group first, got %s", summaries[0].Owner)
	}
	if summaries[0].TotalStaked.String() != "60" || summaries[0].NumPositions != 2 {
		t.Fatalf("unknown group %+v", summaries[0])
	}
}

func TestSummarizeSortsAndRanks(t *testing.T) {
	summaries := Summarize(table(
		position(1, "0xC", 10, 10, 5),
		position(2, "0xA", 50, 50, 5),
		position(3, "0xB", 50, 50, 5),
		position(4, "0xD", 90, 90, 5),
	))

	wantOwners := []string{"0xD", "0xA", "0xB", "0xC"}
	for i, want := range wantOwners {
		if summaries[i].Owner != want {
			t.Fatalf("position %d: owner %s, want %s", i, summaries[i].Owner, want)
		}
		if summaries[i].Rank != i+1 {
			t.Fatalf("owner %s rank %d, want %d", want, summaries[i].Rank, i+1)
		}
	}
}

func TestSummarizeShareAndExtrema(t *testing.T) {
	summaries := Summarize(table(
		position(1, "0xA", 75, 80, 100),
		position(2, "0xA", 25, 20, 900),
		position(3, "0xB", 100, 100, 500),
	))

	var a, b model.OwnerSummary
	for _, s := range summaries {
		switch s.Owner {
		case "0xA":
			a = s
		case "0xB":
			b = s
		}
	}

	if a.EarliestUnlock != 100 || a.LatestUnlock != 900 {
		t.Fatalf("extrema %d/%d, want 100/900", a.EarliestUnlock, a.LatestUnlock)
	}
	if a.TotalStakeWeight.String() != "100" {
		t.Fatalf("stake weight %s, want 100", a.TotalStakeWeight)
	}
	if !a.Share.Equal(decimal.NewFromInt(50)) || !b.Share.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("shares %s/%s, want 50/50", a.Share, b.Share)
	}
}

func TestSummarizeEmptyTable(t *testing.T) {
	summaries := Summarize(model.NewPositionTable())
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}
}

func TestTotals(t *testing.T) {
	flows := []model.NetFlowSample{
		{Kind: model.KindFundsDeposited, Amount: decimal.NewFromInt(1000)},
		{Kind: model.KindFundsDeposited, Amount: decimal.NewFromInt(500)},
		{Kind: model.KindFundsWithdrawn, Amount: decimal.NewFromInt(400)},
		{Kind: model.KindRewardsIssued, Amount: decimal.NewFromInt(30)},
		{Kind: model.KindRewardsWithdrawn, Amount: decimal.NewFromInt(10)},
	}

	totals := Totals(flows)
	if totals.NumDeposits != 2 || totals.NumWithdrawals != 1 {
		t.Fatalf("counts %d/%d, want 2/1", totals.NumDeposits, totals.NumWithdrawals)
	}
	if totals.TotalDeposited.String() != "1500" {
		t.Fatalf("deposited %s, want 1500", totals.TotalDeposited)
	}
	if totals.NetStaked.String() != "1100" {
		t.Fatalf("net staked %s, want 1100", totals.NetStaked)
	}
	if totals.TotalRewardsIssued.String() != "30" || totals.TotalRewardsWithdrawn.String() != "10" {
		t.Fatalf("rewards %s/%s", totals.TotalRewardsIssued, totals.TotalRewardsWithdrawn)
	}
}
