//go:build windows

package main

// Register the Windows platform implementation.
import _ "github.com/janko/shade/internal/platform/windows"
