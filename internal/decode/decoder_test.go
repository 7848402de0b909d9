package decode

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"stakeScope/internal/model"
)

func topicWord(value uint64) string {
	return fmt.Sprintf("0x%064x", value)
}

func topicLabel(label string) string {
	padded := make([]byte, 32)
	copy(padded, label)
	return fmt.Sprintf("0x%x", padded)
}

func topicAddr(addr string) string {
	return "0x" + fmt.Sprintf("%024x", 0) + addr[2:]
}

func dataWords(values ...*big.Int) string {
	data := "0x"
	for _, value := range values {
		data += fmt.Sprintf("%064x", value)
	}
	return data
}

func rawRecord(kind model.EventKind, topics []string, data string) model.RawLogRecord {
	return model.RawLogRecord{
		BlockNumber: "0x10",
		Timestamp:   "0x65000000",
		TxHash:      "0xabc",
		LogIndex:    "0x2",
		Topics:      append([]string{TopicForKind(kind).Hex()}, topics...),
		Data:        data,
	}
}

func TestDecodePositionCreated(t *testing.T) {
	decoder := NewDecoder()

	record := rawRecord(model.KindPositionCreated,
		[]string{topicWord(7), topicLabel("v1")},
		dataWords(big.NewInt(1_700_000_000)),
	)

	event, err := decoder.Decode(record, model.KindPositionCreated)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.BlockNumber != 16 || event.Timestamp != 0x65000000 || event.LogIndex != 2 {
		t.Fatalf("header mismatch: %+v", event)
	}

	data, ok := event.Data.(model.PositionCreatedData)
	if !ok {
		t.Fatalf("payload type %T", event.Data)
	}
	if data.PositionID != 7 || data.Expiry != 1_700_000_000 || data.Validator != "v1" {
		t.Fatalf("payload mismatch: %+v", data)
	}
}

func TestDecodeDepositScalesAmountExactly(t *testing.T) {
	decoder := NewDecoder()

	raw, _ := new(big.Int).SetString("1234567890123456789", 10)
	record := rawRecord(model.KindFundsDeposited,
		[]string{topicWord(3)},
		dataWords(raw, big.NewInt(0).Set(raw)),
	)

	event, err := decoder.Decode(record, model.KindFundsDeposited)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	data := event.Data.(model.FundsDepositedData)
	if data.PositionID != 3 {
		t.Fatalf("position id %d", data.PositionID)
	}
	if data.FundsAddedRaw.Cmp(raw) != 0 {
		t.Fatalf("raw amount mismatch: %s", data.FundsAddedRaw)
	}
	if got := data.FundsAdded.String(); got != "1.234567890123456789" {
		t.Fatalf("scaled amount %s, want 1.234567890123456789", got)
	}
	if got := data.StakeAdded.String(); got != "1.234567890123456789" {
		t.Fatalf("scaled stake %s", got)
	}
}

func TestDecodeWithdrawalAndRewards(t *testing.T) {
	decoder := NewDecoder()

	withdrawal := rawRecord(model.KindFundsWithdrawn,
		[]string{topicWord(5)},
		dataWords(big.NewInt(400)),
	)
	event, err := decoder.Decode(withdrawal, model.KindFundsWithdrawn)
	if err != nil {
		t.Fatalf("decode withdrawal: %v", err)
	}
	if data := event.Data.(model.FundsWithdrawnData); data.PositionID != 5 || data.FundsRemovedRaw.Int64() != 400 {
		t.Fatalf("withdrawal mismatch: %+v", data)
	}

	issued := rawRecord(model.KindRewardsIssued,
		[]string{topicLabel("validator-9")},
		dataWords(big.NewInt(250)),
	)
	event, err = decoder.Decode(issued, model.KindRewardsIssued)
	if err != nil {
		t.Fatalf("decode rewards issued: %v", err)
	}
	if data := event.Data.(model.RewardsIssuedData); data.Validator != "validator-9" || data.AmountRaw.Int64() != 250 {
		t.Fatalf("rewards issued mismatch: %+v", data)
	}

	withdrawn := rawRecord(model.KindRewardsWithdrawn,
		[]string{topicAddr("0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa")},
		dataWords(big.NewInt(99)),
	)
	event, err = decoder.Decode(withdrawn, model.KindRewardsWithdrawn)
	if err != nil {
		t.Fatalf("decode rewards withdrawn: %v", err)
	}
	if data := event.Data.(model.RewardsWithdrawnData); !strings.EqualFold(data.To, "0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa") {
		t.Fatalf("recipient mismatch: %+v", data)
	}
}

func TestDecodeOwnershipTransfer(t *testing.T) {
	decoder := NewDecoder()

	record := rawRecord(model.KindOwnershipTransferred,
		[]string{
			topicAddr("0x1111111111111111111111111111111111111111"),
			topicAddr("0x2222222222222222222222222222222222222222"),
			topicWord(42),
		},
		"0x",
	)

	event, err := decoder.Decode(record, model.KindOwnershipTransferred)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	data := event.Data.(model.OwnershipTransferredData)
	if data.PositionID != 42 {
		t.Fatalf("token id %d", data.PositionID)
	}
	if data.NewOwner != "0x2222222222222222222222222222222222222222" {
		t.Fatalf("new owner %s", data.NewOwner)
	}
}

func TestDecodeLabelDegradesToValidText(t *testing.T) {
	decoder := NewDecoder()

	// 0xff 0xfe is not valid UTF-8; the label must still decode.
	badLabel := fmt.Sprintf("0x%x", append([]byte{0xff, 0xfe, 'o', 'k'}, make([]byte, 28)...))
	record := rawRecord(model.KindPositionCreated,
		[]string{topicWord(1), badLabel},
		dataWords(big.NewInt(100)),
	)

	event, err := decoder.Decode(record, model.KindPositionCreated)
	if err != nil {
		t.Fatalf("label decode must never fail: %v", err)
	}
	data := event.Data.(model.PositionCreatedData)
	if data.Validator == "" {
		t.Fatalf("expected best-effort label, got empty")
	}
	for _, r := range data.Validator {
		if r == 0 {
			t.Fatalf("label retained NUL bytes: %q", data.Validator)
		}
	}
}

func TestDecodeMalformedShapes(t *testing.T) {
	decoder := NewDecoder()

	cases := []struct {
		name   string
		kind   model.EventKind
		record model.RawLogRecord
	}{
		{
			name:   "missing indexed topic",
			kind:   model.KindFundsDeposited,
			record: rawRecord(model.KindFundsDeposited, nil, dataWords(big.NewInt(1), big.NewInt(2))),
		},
		{
			name:   "short data payload",
			kind:   model.KindFundsDeposited,
			record: rawRecord(model.KindFundsDeposited, []string{topicWord(1)}, dataWords(big.NewInt(1))),
		},
		{
			name:   "extra data word",
			kind:   model.KindFundsWithdrawn,
			record: rawRecord(model.KindFundsWithdrawn, []string{topicWord(1)}, dataWords(big.NewInt(1), big.NewInt(2))),
		},
		{
			name: "bad block number",
			kind: model.KindFundsWithdrawn,
			record: model.RawLogRecord{
				BlockNumber: "nope",
				Timestamp:   "0x65000000",
				Topics:      []string{TopicForKind(model.KindFundsWithdrawn).Hex(), topicWord(1)},
				Data:        dataWords(big.NewInt(1)),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decoder.Decode(tc.record, tc.kind)
			if err == nil {
				t.Fatalf("expected malformed error")
			}
			var malformedErr *model.MalformedEventError
			if !errors.As(err, &malformedErr) {
				t.Fatalf("expected MalformedEventError, got %T: %v", err, err)
			}
			if malformedErr.Record.Data != tc.record.Data {
				t.Fatalf("raw record not attached for diagnostics")
			}
		})
	}
}

func TestTopicsAreDistinctPerKind(t *testing.T) {
	decoder := NewDecoder()
	seen := make(map[string]model.EventKind)
	for _, kind := range model.Kinds() {
		topic := TopicForKind(kind).Hex()
		if !decoder.CanDecode(topic) {
			t.Fatalf("decoder cannot decode %s topic", kind)
		}
		if other, dup := seen[topic]; dup {
			t.Fatalf("%s and %s share topic %s", kind, other, topic)
		}
		seen[topic] = kind
	}
	if decoder.CanDecode("0xdeadbeef") {
		t.Fatalf("unknown topic must not decode")
	}
}
