// Package session suppresses repeated generations for one caller.
//
// A Tracker remembers the signature and result of the last successful
// generation. Submitting the same input again returns the remembered result
// without calling the provider. A Registry holds one Tracker per session id
// for the HTTP surface.
package session
