// Package sx encodes and submits Snapshot X operations on StarkNet.
//
// StarkNet contracts take their arguments as a flat array of field elements
// (felts). This package provides the primitives needed to build that array
// from structured parameters and to submit several calls as one atomic
// account multicall:
//   - Felt and Uint256 types, with the low/high split used for 256-bit values
//   - Flattening of nested parameter arrays into length or offset prefixed
//     sequences
//   - Call descriptors and a Planner that compiles them into the account's
//     __execute__ calldata
//   - A Submitter that sends a multicall and waits for a terminal receipt
//   - An event extractor driven by per-contract-version offset tables
//
// # Basic Usage
//
//	factory := sx.NewContract(factoryAddr, "deploy_space")
//
//	planner := sx.New()
//	planner.Add(factory.MustInvoke("deploy_space", calldata...))
//
//	plan, err := planner.Plan()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	submitter := sx.NewSubmitter(account, provider, sx.WithTimeout(10*time.Minute))
//	result, err := submitter.Submit(ctx, plan.Calls, maxFee)
//
// # Calldata Conventions
//
// Every variable-length field is preceded by its own length. 256-bit integers
// are passed as two felts, low 128 bits first. Nested arrays of strategy
// parameters are sent using the offset-header encoding produced by Flatten2D.
// The positional order of arguments is defined by the called contract and is
// part of the wire format.
//
// # Receipts
//
// Receipts returned by a Provider are validated when decoded. Events are
// located by position using an EventLayout, so that a contract upgrade only
// requires a new layout entry.
package sx
