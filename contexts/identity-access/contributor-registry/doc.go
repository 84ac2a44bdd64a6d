// Package contributorregistry implements the contributor registry for revshare.
//
// The module owns the contributors table and exposes registration,
// payout-destination linking, and support opt-in operations. Contributor rows
// are never deleted so historical entitlements stay attributable.
package contributorregistry
