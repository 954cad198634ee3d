// Package driven defines the interfaces the core depends on: credential
// persistence, the token endpoint, the browser-based authorization flow,
// and the settings file. Adapters implement these.
package driven
