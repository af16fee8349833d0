// Package main is the entry point for the makemod CLI.
package main

import "makemod.dev/pkg/makemod/cmd"

func main() {
	cmd.Execute()
}
