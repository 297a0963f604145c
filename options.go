package sx

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Default limits and timings.
const (
	// DefaultMaxCalls bounds the number of calls in one multicall.
	DefaultMaxCalls = 64

	// DefaultMaxCalldata bounds the __execute__ calldata length in felts.
	DefaultMaxCalldata = 4096

	// DefaultPollInterval is the delay between receipt queries.
	DefaultPollInterval = 5 * time.Second

	// DefaultTimeout bounds the wait for a terminal status.
	DefaultTimeout = 15 * time.Minute
)

// PlanOption configures the Plan() operation.
type PlanOption func(*planConfig)

// planConfig holds configuration for the Plan() method.
type planConfig struct {
	maxCalls    int
	maxCalldata int
}

// defaultPlanConfig returns the default plan configuration.
func defaultPlanConfig() *planConfig {
	return &planConfig{
		maxCalls:    DefaultMaxCalls,
		maxCalldata: DefaultMaxCalldata,
	}
}

// WithMaxCalls sets a maximum call limit for the plan.
// Default is 64 calls.
func WithMaxCalls(max int) PlanOption {
	return func(c *planConfig) {
		c.maxCalls = max
	}
}

// WithMaxCalldata sets a maximum length for the compiled __execute__ calldata.
// Default is 4096 felts.
func WithMaxCalldata(max int) PlanOption {
	return func(c *planConfig) {
		c.maxCalldata = max
	}
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*submitterConfig)

type submitterConfig struct {
	pollInterval time.Duration
	timeout      time.Duration
	logger       log.Logger
	planOpts     []PlanOption
}

func defaultSubmitterConfig() *submitterConfig {
	return &submitterConfig{
		pollInterval: DefaultPollInterval,
		timeout:      DefaultTimeout,
		logger:       log.Root(),
	}
}

// WithPollInterval sets the delay between receipt queries.
// Non-positive values keep the default.
func WithPollInterval(d time.Duration) SubmitterOption {
	return func(c *submitterConfig) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithTimeout bounds how long Submit waits for a terminal status.
// Non-positive values keep the default.
func WithTimeout(d time.Duration) SubmitterOption {
	return func(c *submitterConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for submission progress.
func WithLogger(l log.Logger) SubmitterOption {
	return func(c *submitterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPlanOptions sets the options used to validate each batch before it is
// sent.
func WithPlanOptions(opts ...PlanOption) SubmitterOption {
	return func(c *submitterConfig) {
		c.planOpts = append(c.planOpts, opts...)
	}
}
