package decode

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"stakeScope/internal/model"
)

const wordHexLen = 64

// Decoder turns raw log records into typed events. It is pure: the same
// record always yields the same event or the same error.
type Decoder struct {
	topicToKind map[string]model.EventKind
}

// NewDecoder builds a decoder for every tracked event kind.
func NewDecoder() *Decoder {
	topicToKind := make(map[string]model.EventKind, len(kindSignatures))
	for kind := range kindSignatures {
		topicToKind[topicKey(TopicForKind(kind).Hex())] = kind
	}
	return &Decoder{topicToKind: topicToKind}
}

// CanDecode checks whether topic0 belongs to a tracked event.
func (d *Decoder) CanDecode(topic0 string) bool {
	_, ok := d.topicToKind[topicKey(topic0)]
	return ok
}

// KindFor resolves topic0 to its event kind.
func (d *Decoder) KindFor(topic0 string) (model.EventKind, bool) {
	kind, ok := d.topicToKind[topicKey(topic0)]
	return kind, ok
}

// Decode converts a raw record into a typed event of the given kind.
// Shape mismatches return a MalformedEventError carrying the record.
func (d *Decoder) Decode(record model.RawLogRecord, kind model.EventKind) (model.TypedEvent, error) {
	block, err := record.BlockNumberUint()
	if err != nil {
		return model.TypedEvent{}, malformed(kind, record, "block number", err)
	}
	timestamp, err := record.TimestampUint()
	if err != nil {
		return model.TypedEvent{}, malformed(kind, record, "timestamp", err)
	}
	logIndex, err := record.LogIndexUint()
	if err != nil {
		return model.TypedEvent{}, malformed(kind, record, "log index", err)
	}

	event := model.TypedEvent{
		Kind:        kind,
		BlockNumber: block,
		Timestamp:   timestamp,
		TxHash:      record.TxHash,
		LogIndex:    logIndex,
	}

	switch kind {
	case model.KindPositionCreated:
		event.Data, err = decodePositionCreated(record)
	case model.KindFundsDeposited:
		event.Data, err = decodeFundsDeposited(record)
	case model.KindFundsWithdrawn:
		event.Data, err = decodeFundsWithdrawn(record)
	case model.KindRewardsIssued:
		event.Data, err = decodeRewardsIssued(record)
	case model.KindRewardsWithdrawn:
		event.Data, err = decodeRewardsWithdrawn(record)
	case model.KindOwnershipTransferred:
		event.Data, err = decodeOwnershipTransferred(record)
	default:
		err = malformed(kind, record, "unknown event kind", nil)
	}
	if err != nil {
		return model.TypedEvent{}, err
	}
	return event, nil
}

func decodePositionCreated(record model.RawLogRecord) (model.PositionCreatedData, error) {
	kind := model.KindPositionCreated
	if err := requireShape(kind, record, 3, 1); err != nil {
		return model.PositionCreatedData{}, err
	}
	pid, err := topicUint64(kind, record, 1)
	if err != nil {
		return model.PositionCreatedData{}, err
	}
	expiryWord, err := dataWord(kind, record, 0)
	if err != nil {
		return model.PositionCreatedData{}, err
	}
	if !expiryWord.IsUint64() {
		return model.PositionCreatedData{}, malformed(kind, record, "expiry exceeds uint64", nil)
	}
	return model.PositionCreatedData{
		PositionID: pid,
		Expiry:     expiryWord.Uint64(),
		Validator:  labelFromTopic(record.Topics[2]),
	}, nil
}

func decodeFundsDeposited(record model.RawLogRecord) (model.FundsDepositedData, error) {
	kind := model.KindFundsDeposited
	if err := requireShape(kind, record, 2, 2); err != nil {
		return model.FundsDepositedData{}, err
	}
	pid, err := topicUint64(kind, record, 1)
	if err != nil {
		return model.FundsDepositedData{}, err
	}
	funds, err := dataWord(kind, record, 0)
	if err != nil {
		return model.FundsDepositedData{}, err
	}
	stake, err := dataWord(kind, record, 1)
	if err != nil {
		return model.FundsDepositedData{}, err
	}
	return model.FundsDepositedData{
		PositionID:    pid,
		FundsAddedRaw: funds,
		FundsAdded:    model.ScaleAmount(funds),
		StakeAddedRaw: stake,
		StakeAdded:    model.ScaleAmount(stake),
	}, nil
}

func decodeFundsWithdrawn(record model.RawLogRecord) (model.FundsWithdrawnData, error) {
	kind := model.KindFundsWithdrawn
	if err := requireShape(kind, record, 2, 1); err != nil {
		return model.FundsWithdrawnData{}, err
	}
	pid, err := topicUint64(kind, record, 1)
	if err != nil {
		return model.FundsWithdrawnData{}, err
	}
	funds, err := dataWord(kind, record, 0)
	if err != nil {
		return model.FundsWithdrawnData{}, err
	}
	return model.FundsWithdrawnData{
		PositionID:      pid,
		FundsRemovedRaw: funds,
		FundsRemoved:    model.ScaleAmount(funds),
	}, nil
}

func decodeRewardsIssued(record model.RawLogRecord) (model.RewardsIssuedData, error) {
	kind := model.KindRewardsIssued
	if err := requireShape(kind, record, 2, 1); err != nil {
		return model.RewardsIssuedData{}, err
	}
	amount, err := dataWord(kind, record, 0)
	if err != nil {
		return model.RewardsIssuedData{}, err
	}
	return model.RewardsIssuedData{
		Validator: labelFromTopic(record.Topics[1]),
		AmountRaw: amount,
		Amount:    model.ScaleAmount(amount),
	}, nil
}

func decodeRewardsWithdrawn(record model.RawLogRecord) (model.RewardsWithdrawnData, error) {
	kind := model.KindRewardsWithdrawn
	if err := requireShape(kind, record, 2, 1); err != nil {
		return model.RewardsWithdrawnData{}, err
	}
	amount, err := dataWord(kind, record, 0)
	if err != nil {
		return model.RewardsWithdrawnData{}, err
	}
	return model.RewardsWithdrawnData{
		To:        addressFromTopic(record.Topics[1]),
		AmountRaw: amount,
		Amount:    model.ScaleAmount(amount),
	}, nil
}

func decodeOwnershipTransferred(record model.RawLogRecord) (model.OwnershipTransferredData, error) {
	kind := model.KindOwnershipTransferred
	if err := requireShape(kind, record, 4, 0); err != nil {
		return model.OwnershipTransferredData{}, err
	}
	pid, err := topicUint64(kind, record, 3)
	if err != nil {
		return model.OwnershipTransferredData{}, err
	}
	return model.OwnershipTransferredData{
		PositionID: pid,
		From:       addressFromTopic(record.Topics[1]),
		NewOwner:   addressFromTopic(record.Topics[2]),
	}, nil
}

func requireShape(kind model.EventKind, record model.RawLogRecord, topics, words int) error {
	if len(record.Topics) != topics {
		return malformed(kind, record,
			fmt.Sprintf("expected %d topics, got %d", topics, len(record.Topics)), nil)
	}
	want := 2 + words*wordHexLen
	data := record.Data
	if words == 0 && (data == "0x" || data == "") {
		return nil
	}
	if len(data) != want || !strings.HasPrefix(data, "0x") {
		return malformed(kind, record,
			fmt.Sprintf("expected %d data words, got %d hex chars", words, len(data)), nil)
	}
	return nil
}

// dataWord reads the Nth 32-byte big-endian word from the data payload.
func dataWord(kind model.EventKind, record model.RawLogRecord, index int) (*big.Int, error) {
	start := 2 + index*wordHexLen
	end := start + wordHexLen
	if len(record.Data) < end {
		return nil, malformed(kind, record, fmt.Sprintf("data word %d out of range", index), nil)
	}
	word, ok := new(big.Int).SetString(record.Data[start:end], 16)
	if !ok {
		return nil, malformed(kind, record, fmt.Sprintf("data word %d is not hex", index), nil)
	}
	return word, nil
}

// topicUint64 reads a topic slot as a big-endian unsigned integer.
func topicUint64(kind model.EventKind, record model.RawLogRecord, slot int) (uint64, error) {
	raw, err := topicBytes(record.Topics[slot])
	if err != nil {
		return 0, malformed(kind, record, fmt.Sprintf("topic %d", slot), err)
	}
	value := new(big.Int).SetBytes(raw)
	if !value.IsUint64() {
		return 0, malformed(kind, record, fmt.Sprintf("topic %d exceeds uint64", slot), nil)
	}
	return value.Uint64(), nil
}

// addressFromTopic takes the low 20 bytes of a 32-byte topic word.
func addressFromTopic(topic string) string {
	raw, err := topicBytes(topic)
	if err != nil || len(raw) != 32 {
		return ""
	}
	return common.BytesToAddress(raw[12:]).Hex()
}

// labelFromTopic decodes a fixed-width bytes32 label: trailing zero bytes
// are stripped and invalid byte sequences degrade to the replacement rune.
// Never fails.
func labelFromTopic(topic string) string {
	raw, err := topicBytes(topic)
	if err != nil {
		return ""
	}
	trimmed := strings.TrimRight(string(raw), "\x00")
	return strings.ToValidUTF8(trimmed, string(utf8.RuneError))
}

func topicBytes(topic string) ([]byte, error) {
	raw, err := hexutil.Decode(topic)
	if err != nil {
		return nil, fmt.Errorf("invalid topic: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("topic length %d", len(raw))
	}
	return raw, nil
}

func malformed(kind model.EventKind, record model.RawLogRecord, reason string, err error) *model.MalformedEventError {
	return &model.MalformedEventError{Kind: kind, Record: record, Reason: reason, Err: err}
}
