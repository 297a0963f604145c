package sx

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the failure categories. Typed errors below report
// their category through Is, so callers can match with errors.Is.
var (
	// ErrEncoding indicates a value could not be turned into calldata.
	ErrEncoding = errors.New("sx: encoding error")

	// ErrSubmission indicates a transaction was rejected or did not reach a
	// terminal status in time.
	ErrSubmission = errors.New("sx: submission error")

	// ErrExtraction indicates a receipt does not have the expected shape.
	ErrExtraction = errors.New("sx: extraction error")

	// ErrCardinality indicates two sequences that must align do not.
	ErrCardinality = errors.New("sx: cardinality mismatch")

	// ErrResourceUnavailable indicates a fixture or configuration is missing.
	ErrResourceUnavailable = errors.New("sx: resource unavailable")

	// ErrNoCalls indicates an empty multicall.
	ErrNoCalls = errors.New("sx: no calls to submit")

	// ErrTooManyCalls indicates the plan exceeds the configured call limit.
	ErrTooManyCalls = errors.New("sx: too many calls in plan")

	// ErrCalldataTooLarge indicates the plan exceeds the configured calldata limit.
	ErrCalldataTooLarge = errors.New("sx: calldata too large")

	// ErrMalformedCalldata indicates execute calldata could not be decoded.
	ErrMalformedCalldata = errors.New("sx: malformed execute calldata")
)

// OutOfRangeError indicates a value does not fit its target representation.
type OutOfRangeError struct {
	Value string
	Limit string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("sx: value %s out of range (limit %s)", e.Value, e.Limit)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrEncoding
}

// EncodingError indicates a failure converting a Go value to calldata.
type EncodingError struct {
	Value any
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("sx: encoding error for value %T: %v", e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// SchemaMismatchError indicates a named calldata field could not be encoded
// in the position the target contract expects.
type SchemaMismatchError struct {
	Field string
	Err   error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("sx: field %q: %v", e.Field, e.Err)
}

func (e *SchemaMismatchError) Unwrap() error {
	return e.Err
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrEncoding
}

// MethodNotFoundError indicates the contract doesn't expose the requested entrypoint.
type MethodNotFoundError struct {
	Contract Felt
	Method   string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("sx: entrypoint %q not found in contract %s", e.Method, e.Contract.Hex())
}

func (e *MethodNotFoundError) Is(target error) bool {
	return target == ErrEncoding
}

// ArgumentError indicates an issue with one argument of a call.
type ArgumentError struct {
	Method string
	Index  int
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("sx: argument %d for entrypoint %q: %v", e.Index, e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// PlanError wraps errors that occur while compiling a plan.
type PlanError struct {
	CallIndex int
	Method    string
	Err       error
}

func (e *PlanError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("sx: call %d (%s): %v", e.CallIndex, e.Method, e.Err)
	}
	return fmt.Sprintf("sx: call %d: %v", e.CallIndex, e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// SubmissionRejectedError carries the chain's reason for rejecting a
// transaction. TxHash is zero when the account refused the invoke before a
// hash was assigned.
type SubmissionRejectedError struct {
	TxHash Felt
	Status TxStatus
	Reason string
	Err    error
}

func (e *SubmissionRejectedError) Error() string {
	msg := "sx: transaction rejected"
	if !e.TxHash.IsZero() {
		msg += " " + e.TxHash.Hex()
	}
	if e.Status != "" {
		msg += " (" + string(e.Status) + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *SubmissionRejectedError) Unwrap() error {
	return e.Err
}

func (e *SubmissionRejectedError) Is(target error) bool {
	return target == ErrSubmission
}

// SubmissionTimeoutError indicates the local wait gave up before the chain
// reported a terminal status. The transaction may still be accepted or
// rejected later; re-query TxHash to find out.
type SubmissionTimeoutError struct {
	TxHash     Felt
	Timeout    time.Duration
	LastStatus TxStatus
}

func (e *SubmissionTimeoutError) Error() string {
	status := e.LastStatus
	if status == "" {
		status = "unknown"
	}
	return fmt.Sprintf("sx: transaction %s not terminal after %s (last status %s)", e.TxHash.Hex(), e.Timeout, status)
}

func (e *SubmissionTimeoutError) Is(target error) bool {
	return target == ErrSubmission
}

// EventNotFoundError indicates a requested event position is outside the
// receipt's event list.
type EventNotFoundError struct {
	Position int
	Count    int
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("sx: event %d not found (receipt has %d events)", e.Position, e.Count)
}

func (e *EventNotFoundError) Is(target error) bool {
	return target == ErrExtraction
}

// FieldNotFoundError indicates a data field is missing from a located event.
type FieldNotFoundError struct {
	Position int
	Field    int
	Count    int
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("sx: event %d has no data field %d (%d fields)", e.Position, e.Field, e.Count)
}

func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrExtraction
}

// ReceiptError indicates a receipt document failed validation.
type ReceiptError struct {
	Field string
	Err   error
}

func (e *ReceiptError) Error() string {
	return fmt.Sprintf("sx: invalid receipt field %q: %v", e.Field, e.Err)
}

func (e *ReceiptError) Unwrap() error {
	return e.Err
}

func (e *ReceiptError) Is(target error) bool {
	return target == ErrExtraction
}

// CardinalityMismatchError indicates two position-aligned inputs differ in length.
type CardinalityMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *CardinalityMismatchError) Error() string {
	return fmt.Sprintf("sx: %s: expected %d, got %d", e.What, e.Want, e.Got)
}

func (e *CardinalityMismatchError) Is(target error) bool {
	return target == ErrCardinality
}

// ResourceUnavailableError indicates a fixture, configuration file or
// environment value could not be obtained.
type ResourceUnavailableError struct {
	Resource string
	Err      error
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("sx: resource %s unavailable: %v", e.Resource, e.Err)
}

func (e *ResourceUnavailableError) Unwrap() error {
	return e.Err
}

func (e *ResourceUnavailableError) Is(target error) bool {
	return target == ErrResourceUnavailable
}
