// Package prompt asks the user for passcodes and confirmations on the
// terminal. It backs the vault's passcode prompt and the simulated
// biometric sensor of the command-line client.
package prompt
