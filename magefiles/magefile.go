//go:build mage

// Package main contains Mage build targets for medmatch developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

// binaries maps each binary name to its command package.
var binaries = map[string]string{
	"medmatch":  "./cmd/medmatch",
	"medmatchd": "./cmd/medmatchd",
}

// Default is the target run by a bare `mage`.
var Default = Build

// Build compiles the CLI and the daemon into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	for name, pkg := range binaries {
		out := filepath.Join(binDir, name)
		if err := sh.RunV("go", "build", "-o", out, pkg); err != nil {
			return fmt.Errorf("go build %s: %w", pkg, err)
		}
		fmt.Printf("Built %s\n", out)
	}
	return nil
}

// Test runs the unit tests with the race detector. The sqlite driver needs
// cgo.
func Test() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, "go", "test", "-race", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Run builds and starts the daemon with a local sqlite history database.
func Run() error {
	mg.Deps(Build)
	return sh.RunWithV(map[string]string{
		"MEDMATCH_DATABASE_URL": "sqlite://medmatch.db",
	}, filepath.Join(binDir, "medmatchd"))
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
