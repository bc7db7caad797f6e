//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	jetCredentialsOutput = "internal/credentials/gen"
	sqliteFileLocation   = "credentials.sqlite"
	clientBin            = "./bin/ligavocal"
	mockBackendBin       = "./bin/mockbackend"
)

const (
	toolsDir     = "tools/"
	toolsModfile = toolsDir + "go.mod"
	toolsBinDir  = toolsDir + "bin/"
	lintTool     = toolsBinDir + "golangci-lint"
	jetTool      = toolsBinDir + "jet"
)

const (
	clientConfigPath      = "configs/client.toml"
	mockBackendConfigPath = "configs/mockbackend.toml"
)

func goModDownload() error {
	return sh.Run("go", "mod", "download")
}

// Build builds the bot and the mock backend binaries
func Build() error {
	mg.Deps(goModDownload)
	if err := sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "build", "-o", clientBin, "./cmd"); err != nil {
		return err
	}
	return sh.Run("go", "build", "-o", mockBackendBin, "./cmd/mockbackend")
}

// Run starts the telegram bot
func Run() error {
	mg.Deps(Build)
	return sh.Run(clientBin, "-config", clientConfigPath)
}

// MockBackend starts the in-memory league backend
func MockBackend() error {
	mg.Deps(Build)
	return sh.Run(mockBackendBin, "-config", mockBackendConfigPath)
}

// Test runs unit and integration tests
func Test() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "test", "-race", "./...")
}

// GenJet regenerates the credential store models from a migrated database
func GenJet() error {
	mg.Deps(buildJetTool)
	return sh.Run(jetTool, "-source", "sqlite", "-dsn", sqliteFileLocation, "-path", jetCredentialsOutput)
}

func buildJetTool() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "build", "-modfile", toolsModfile, "-o", jetTool, "github.com/go-jet/jet/v2/cmd/jet")
}

func Lint() error {
	mg.Deps(buildLintTool)
	return sh.Run(lintTool, "run", "./...")
}

func buildLintTool() error {
	return sh.Run(
		"go", "build",
		"-modfile", toolsModfile,
		"-o", lintTool,
		"github.com/golangci/golangci-lint/cmd/golangci-lint",
	)
}
