// Package domaincheck runs a keyword pre-check of a business description
// against a target market before any generation is attempted.
//
// The check is advisory. It reports aligned priority sectors, restricted
// sectors that make the business unsuitable, topics that call for cultural
// caution, and whether the description already speaks to the local market.
package domaincheck
