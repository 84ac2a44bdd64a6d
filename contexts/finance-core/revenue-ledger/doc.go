// Package revenueledger implements the period revenue ledger for revshare.
//
// The module owns the revenues table: append-only revenue records per
// year-month period, summed into the total the payout engine draws its pool
// from.
package revenueledger
