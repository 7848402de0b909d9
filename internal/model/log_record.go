package model

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RawLogRecord is one log entry as returned by the scan API, hex fields
// untouched. Immutable once fetched; the decoder owns all interpretation.
type RawLogRecord struct {
	BlockNumber string   `json:"blockNumber"`
	Timestamp   string   `json:"timeStamp"`
	TxHash      string   `json:"transactionHash"`
	TxIndex     string   `json:"transactionIndex"`
	LogIndex    string   `json:"logIndex"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
}

// BlockNumberUint parses the hex block number.
func (r RawLogRecord) BlockNumberUint() (uint64, error) {
	return parseHexUint(r.BlockNumber, "blockNumber")
}

// TimestampUint parses the hex unix timestamp.
func (r RawLogRecord) TimestampUint() (uint64, error) {
	return parseHexUint(r.Timestamp, "timeStamp")
}

// LogIndexUint parses the hex log index. Etherscan returns "0x" for index
// zero, which hexutil rejects, so that case is handled explicitly.
func (r RawLogRecord) LogIndexUint() (uint64, error) {
	if r.LogIndex == "0x" || r.LogIndex == "" {
		return 0, nil
	}
	return parseHexUint(r.LogIndex, "logIndex")
}

// Key identifies a record for cross-page deduplication.
func (r RawLogRecord) Key() string {
	return fmt.Sprintf("%s:%s", r.TxHash, r.LogIndex)
}

func parseHexUint(value, field string) (uint64, error) {
	parsed, err := hexutil.DecodeUint64(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return parsed, nil
}
