// Package app wires the teataster client together: configuration, logging,
// the session vault, the data service clients, the store and its effects.
package app
