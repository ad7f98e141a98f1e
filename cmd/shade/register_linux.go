//go:build linux

package main

// Register the Linux platform implementation.
import _ "github.com/janko/shade/internal/platform/linux"
