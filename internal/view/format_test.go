package view

import (
	"math/big"
	"testing"

	"stakeScope/internal/model"
)

func TestFormatUnlock(t *testing.T) {
	cases := []struct {
		expiry uint64
		now    uint64
		want   string
	}{
		{expiry: 100, now: 100, want: "UNLOCKED"},
		{expiry: 50, now: 100, want: "UNLOCKED"},
		{expiry: 100 + 3*3600, now: 100, want: "3h"},
		{expiry: 100 + 2*86400 + 5*3600, now: 100, want: "2d 5h"},
	}
	for _, c := range cases {
		if got := FormatUnlock(c.expiry, c.now); got != c.want {
			t.Fatalf("FormatUnlock(%d, %d) = %q, want %q", c.expiry, c.now, got, c.want)
		}
	}
}

func TestShortAddr(t *testing.T) {
	addr := "0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa"
	if got := ShortAddr(addr); got != "0xAaAa...AaAa" {
		t.Fatalf("ShortAddr = %q", got)
	}
	if got := ShortAddr("0xAb"); got != "0xAb" {
		t.Fatalf("short input must pass through, got %q", got)
	}
}

func TestBuildPositionRows(t *testing.T) {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(model.TokenDecimals), nil)
	mk := func(id uint64, owner string, net int64, expiry uint64) *model.Position {
		p := model.NewPosition(id, expiry, "v1")
		p.Owner = owner
		p.NetDepositedRaw = new(big.Int).Mul(big.NewInt(net), unit)
		return p
	}

	table := model.NewPositionTable()
	table.Put(mk(1, "0xA", 50, 1000))
	table.Put(mk(2, "", 200, 2000))
	table.Put(mk(3, "0xB", 0, 3000))
	table.Put(mk(4, "0xC", 50, 4000))

	rows := BuildPositionRows(table, 500)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].PositionID != 2 {
		t.Fatalf("expected top row id 2, got %d", rows[0].PositionID)
	}
	if rows[1].PositionID != 1 || rows[2].PositionID != 4 {
		t.Fatalf("tie must break by id: %d, %d", rows[1].PositionID, rows[2].PositionID)
	}
	if rows[0].Owner != model.UnknownOwner {
		t.Fatalf("missing owner must map to sentinel, got %q", rows[0].Owner)
	}
	if rows[0].UnlockRemaining == "UNLOCKED" {
		t.Fatalf("future expiry rendered as unlocked")
	}
}
