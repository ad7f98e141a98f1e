//go:build darwin

package main

// Register the macOS platform implementation.
import _ "github.com/janko/shade/internal/platform/darwin"
