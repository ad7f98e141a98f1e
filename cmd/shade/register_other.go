//go:build !darwin && !linux && !windows

package main

// Register the stub platform for everything else.
import _ "github.com/janko/shade/internal/platform/stub"
