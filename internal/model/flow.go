package model

import "github.com/shopspring/decimal"

// NetFlowSample is one event's signed contribution to total staked
// principal. Deposits contribute +funds, withdrawals -funds, reward events
// contribute zero but are kept for volume reporting. Cumulative is the
// running prefix sum in event order.
type NetFlowSample struct {
	BlockNumber uint64          `json:"block_number" csv:"block"`
	Timestamp   uint64          `json:"timestamp" csv:"timestamp"`
	TxHash      string          `json:"tx_hash" csv:"tx_hash"`
	LogIndex    uint64          `json:"log_index" csv:"log_index"`
	Kind        EventKind       `json:"event" csv:"event"`
	Amount      decimal.Decimal `json:"amount" csv:"amount"`
	NetFlow     decimal.Decimal `json:"net_flow" csv:"net_flow"`
	Cumulative  decimal.Decimal `json:"cumulative_net_staked" csv:"cumulative_net_staked"`
}
