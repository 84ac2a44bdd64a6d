// Package payoutengine implements pool allocation and payout issuance for
// revshare.
//
// The module owns the payouts table. Allocation converts a period's revenue
// total into a distributable pool and splits it across qualifying
// contributors proportionally to their entitlement sums, with floor
// rounding; issuance calls the external transfer gateway once per share and
// tolerates per-contributor failures. Runs for the same period are
// serialized by a per-period lock.
package payoutengine
