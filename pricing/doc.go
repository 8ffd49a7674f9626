// Package pricing refreshes part offer prices.
//
// A Quoter answers the single-unit price of a part by manufacturer and mpn.
// TableQuoter serves quotes from a CSV price list. Refresher walks a set of
// records, skips those without an mpn, from generic manufacturers or already
// priced, and fills the rest, retrying failed lookups with exponential
// backoff and reporting progress as it goes.
package pricing
