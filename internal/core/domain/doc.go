// Package domain contains the core types of the Oura CLI: the persisted
// credential record, the token pair returned by the provider, and the
// sentinel errors of the authorization and refresh flows.
package domain
