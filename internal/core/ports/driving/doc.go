// Package driving defines the interfaces through which the CLI drives the
// core services.
package driving
