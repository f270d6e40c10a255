// Package store is the application state container.
//
// State changes only through actions. Store.Run applies the root reducer to
// one action at a time, publishes the new state to subscribers and hands
// the action to every effect registered for its type. Effects run on their
// own goroutines and may answer with one follow-up action.
package store
