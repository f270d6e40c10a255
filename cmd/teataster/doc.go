// Package main provides the entry point for teataster.
//
// teataster is the command-line Tea Taster client. It keeps the session
// token in a vault that can be locked behind a passcode or biometrics and
// browses the tea catalog and tasting notes of the data service.
//
// Usage:
//
//	teataster [global flags] command [flags]
//	teataster login --mode passcode
//	teataster teas rate 3 5
//	teataster notes save --brand Lipton --name "Yellow Label" --category 2 --rating 3
//	teataster shell
//
// The CLI supports both single-command mode and an interactive shell.
package main
