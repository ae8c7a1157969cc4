// Package abtest evaluates two-group conversion experiments with a pooled
// two-proportion z-test.
//
// Evaluate is the single entry point most callers need: it validates an Input,
// computes conversion rates, absolute and relative lift, the pooled standard
// error, the z statistic and the p-value for the requested alternative, and
// returns an immutable Result. The package performs no I/O and keeps no state,
// so it is safe to call from any number of goroutines.
package abtest
