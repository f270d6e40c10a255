// Package effects holds the store side effects: talking to the session
// vault, the data service and the navigator in response to actions.
package effects
