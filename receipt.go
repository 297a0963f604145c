package sx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TxStatus is the status StarkNet reports for a transaction.
type TxStatus string

const (
	StatusNotReceived  TxStatus = "NOT_RECEIVED"
	StatusReceived     TxStatus = "RECEIVED"
	StatusPending      TxStatus = "PENDING"
	StatusAcceptedOnL2 TxStatus = "ACCEPTED_ON_L2"
	StatusAcceptedOnL1 TxStatus = "ACCEPTED_ON_L1"
	StatusRejected     TxStatus = "REJECTED"
	StatusReverted     TxStatus = "REVERTED"
)

// IsTerminal reports whether the status can no longer change in a way that
// affects the outcome. PENDING is not terminal.
func (s TxStatus) IsTerminal() bool {
	switch s {
	case StatusAcceptedOnL2, StatusAcceptedOnL1, StatusRejected, StatusReverted:
		return true
	default:
		return false
	}
}

// IsAccepted reports whether the transaction's effects are on chain.
func (s TxStatus) IsAccepted() bool {
	return s == StatusAcceptedOnL2 || s == StatusAcceptedOnL1
}

func (s TxStatus) known() bool {
	switch s {
	case StatusNotReceived, StatusReceived, StatusPending,
		StatusAcceptedOnL2, StatusAcceptedOnL1, StatusRejected, StatusReverted:
		return true
	default:
		return false
	}
}

// Event is one event emitted by a transaction.
type Event struct {
	FromAddress Felt   `json:"from_address"`
	Keys        []Felt `json:"keys"`
	Data        []Felt `json:"data"`
}

// Receipt is a validated transaction receipt.
type Receipt struct {
	TransactionHash Felt     `json:"transaction_hash"`
	Status          TxStatus `json:"status"`
	Reason          string   `json:"reason,omitempty"`
	ActualFee       Felt     `json:"actual_fee"`
	BlockNumber     uint64   `json:"block_number,omitempty"`
	Events          []Event  `json:"events"`
}

// SubmissionResult is the outcome of a successful submission.
type SubmissionResult struct {
	TransactionHash Felt
	Receipt         *Receipt
}

// rawReceipt mirrors the JSON-RPC receipt object. Older nodes report a single
// status; newer ones split it into finality and execution status.
type rawReceipt struct {
	TransactionHash *string         `json:"transaction_hash"`
	Status          string          `json:"status"`
	FinalityStatus  string          `json:"finality_status"`
	ExecutionStatus string          `json:"execution_status"`
	StatusData      string          `json:"status_data"`
	RevertReason    string          `json:"revert_reason"`
	ActualFee       json.RawMessage `json:"actual_fee"`
	BlockNumber     *uint64         `json:"block_number"`
	Events          []rawEvent      `json:"events"`
}

type rawEvent struct {
	FromAddress string   `json:"from_address"`
	Keys        []string `json:"keys"`
	Data        []string `json:"data"`
}

var errMissing = errors.New("missing")

// DecodeReceipt validates a JSON-RPC receipt document. Any shape problem is
// reported as a ReceiptError, which matches ErrExtraction.
func DecodeReceipt(data []byte) (*Receipt, error) {
	var raw rawReceipt
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ReceiptError{Field: "receipt", Err: err}
	}

	if raw.TransactionHash == nil {
		return nil, &ReceiptError{Field: "transaction_hash", Err: errMissing}
	}
	hash, err := FeltFromHex(*raw.TransactionHash)
	if err != nil {
		return nil, &ReceiptError{Field: "transaction_hash", Err: err}
	}

	status := TxStatus(raw.Status)
	if status == "" {
		status = TxStatus(raw.FinalityStatus)
	}
	if raw.ExecutionStatus == "REVERTED" {
		status = StatusReverted
	}
	if status == "" {
		return nil, &ReceiptError{Field: "status", Err: errMissing}
	}
	if !status.known() {
		return nil, &ReceiptError{Field: "status", Err: fmt.Errorf("unknown status %q", status)}
	}

	r := &Receipt{
		TransactionHash: hash,
		Status:          status,
		Reason:          raw.StatusData,
	}
	if raw.RevertReason != "" {
		r.Reason = raw.RevertReason
	}
	if raw.BlockNumber != nil {
		r.BlockNumber = *raw.BlockNumber
	}
	fee, err := decodeFee(raw.ActualFee)
	if err != nil {
		return nil, &ReceiptError{Field: "actual_fee", Err: err}
	}
	r.ActualFee = fee

	if status.IsAccepted() && raw.Events == nil {
		return nil, &ReceiptError{Field: "events", Err: errMissing}
	}
	r.Events = make([]Event, len(raw.Events))
	for i, ev := range raw.Events {
		decoded, err := decodeEvent(ev)
		if err != nil {
			return nil, &ReceiptError{Field: fmt.Sprintf("events[%d]", i), Err: err}
		}
		r.Events[i] = decoded
	}
	return r, nil
}

// decodeFee accepts the legacy hex string and the newer {amount, unit} object.
func decodeFee(data json.RawMessage) (Felt, error) {
	if len(data) == 0 || string(data) == "null" {
		return Felt{}, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return FeltFromString(s)
	}
	var obj struct {
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return Felt{}, err
	}
	if obj.Amount == "" {
		return Felt{}, nil
	}
	return FeltFromString(obj.Amount)
}

func decodeEvent(ev rawEvent) (Event, error) {
	if ev.Data == nil {
		return Event{}, fmt.Errorf("data: %w", errMissing)
	}
	var out Event
	if ev.FromAddress != "" {
		from, err := FeltFromHex(ev.FromAddress)
		if err != nil {
			return Event{}, fmt.Errorf("from_address: %w", err)
		}
		out.FromAddress = from
	}
	keys, err := FeltsFromStrings(ev.Keys)
	if err != nil {
		return Event{}, fmt.Errorf("keys: %w", err)
	}
	data, err := FeltsFromStrings(ev.Data)
	if err != nil {
		return Event{}, fmt.Errorf("data: %w", err)
	}
	out.Keys = keys
	out.Data = data
	return out, nil
}
