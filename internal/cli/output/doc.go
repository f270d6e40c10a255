// Package output renders command results as a table, JSON or YAML.
//
// Tables come from values implementing Tabular, from a *Table, or from
// slices and structs by reflection on their json tags. The spinner shows
// progress while a command waits on the store.
package output
