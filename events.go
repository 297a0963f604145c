package sx

import (
	"fmt"
	"sort"
)

// EventLayout describes where a contract version emits the events of
// interest inside a transaction receipt. Event i of a batch sits at position
// First + i*Stride, and the value sought is Data[Field] of that event.
//
// Layouts are part of a contract's observable behavior. When a contract is
// upgraded and its event order changes, register a new layout instead of
// changing the extraction code.
type EventLayout struct {
	Name   string
	First  int
	Stride int
	Field  int
}

// Positions returns the receipt positions of the first n events.
func (l EventLayout) Positions(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = l.First + i*l.Stride
	}
	return out
}

// Extract returns the value at the layout's field for n consecutive events.
func (l EventLayout) Extract(r *Receipt, n int) ([]Felt, error) {
	return Extract(r, l.Positions(n), l.Field)
}

// SpaceFactoryV1Name names the layout of the first Snapshot X space factory.
const SpaceFactoryV1Name = "space_factory/v1"

// SpaceFactoryV1 returns the layout of the Snapshot X space factory: each
// deploy_space call emits one unrelated event followed by space_deployed,
// whose data[1] is the new space address.
func SpaceFactoryV1() EventLayout {
	return EventLayout{Name: SpaceFactoryV1Name, First: 1, Stride: 2, Field: 1}
}

// eventLayouts holds the known layouts by name. Lookups return copies.
var eventLayouts = map[string]func() EventLayout{
	SpaceFactoryV1Name: SpaceFactoryV1,
}

// LookupEventLayout returns the named layout.
func LookupEventLayout(name string) (EventLayout, error) {
	layout, ok := eventLayouts[name]
	if !ok {
		return EventLayout{}, &ResourceUnavailableError{
			Resource: "event layout " + name,
			Err:      fmt.Errorf("known layouts: %v", EventLayoutNames()),
		}
	}
	return layout(), nil
}

// EventLayoutNames lists the registered layouts in sorted order.
func EventLayoutNames() []string {
	names := make([]string, 0, len(eventLayouts))
	for name := range eventLayouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extract returns, for each requested position, the value at field within
// that event's data. A position outside the event list fails with
// EventNotFoundError and a missing field with FieldNotFoundError. Nothing is
// returned on failure, so a partial result can never be used.
func Extract(r *Receipt, positions []int, field int) ([]Felt, error) {
	if r == nil {
		return nil, &ReceiptError{Field: "receipt", Err: errMissing}
	}
	out := make([]Felt, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= len(r.Events) {
			return nil, &EventNotFoundError{Position: pos, Count: len(r.Events)}
		}
		data := r.Events[pos].Data
		if field < 0 || field >= len(data) {
			return nil, &FieldNotFoundError{Position: pos, Field: field, Count: len(data)}
		}
		out[i] = data[field]
	}
	return out, nil
}
