// Package entitlementledger implements the entitlement ledger for revshare.
//
// The module owns the sales, support_sessions, and entitlements tables. It
// normalizes earning events (sale commissions, approved support time) into
// append-only entitlement rows and answers the grouped earnings query used by
// contributors and the payout engine. Idempotency rests on two unique
// constraints: sale transaction ids and (source_table, source_id, category)
// on entitlements.
package entitlementledger
