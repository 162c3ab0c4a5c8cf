// Package main is the entry point for the covmeld CLI.
package main

import "github.com/mouse-blink/covmeld/cmd"

func main() {
	cmd.Execute()
}
