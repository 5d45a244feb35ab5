//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

// Pipeline builds the CLI and runs the full data pipeline: acquire every
// registry dataset, convert the raw files to canonical CSV, and index
// the catalog.
func Pipeline() error {
	mg.Deps(Init, Build)

	bin := filepath.Join(binDir, binName)
	stages := [][]string{
		{"acquire", "--all"},
		{"convert", "--all"},
		{"catalog", "ingest"},
	}
	for _, stage := range stages {
		fmt.Printf("==> %s %s\n", binName, strings.Join(stage, " "))
		cmd := exec.Command(bin, stage...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s stage: %w", stage[0], err)
		}
	}
	return nil
}
