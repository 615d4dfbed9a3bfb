// Package main is the entry point of the storiesV13 backend.
// It sets up and starts the server by calling initialization functions from the internal package.
package main

import (
	"stories-v13/internal"
)

func main() {
	internal.Init()
}
