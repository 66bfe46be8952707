// Package main is the entry point for the tether command-line tooling.
package main

import "tether/cmd"

func main() {
	cmd.Execute()
}
