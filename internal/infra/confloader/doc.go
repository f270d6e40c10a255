// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Overrides passed to LoadMap (command-line flags)
//  2. Environment variables
//  3. The YAML configuration file
//  4. Defaults already set in the target struct
//
// Environment keys: after the prefix, a double underscore separates
// sections and a single underscore stays part of the key, so
// TEATASTER_VAULT__LOCK_AFTER maps to vault.lock_after.
//
// Watcher reports changes to watched files through fsnotify.
package confloader
