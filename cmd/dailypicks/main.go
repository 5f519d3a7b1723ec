package main

import (
	"os"

	"github.com/wonny/dailypicks/cmd/dailypicks/commands"
)

// main is the entry point for the daily picks CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/dailypicks [command]
func main() {
	os.Exit(commands.Run(os.Args[1:], os.Stdout, os.Stderr))
}
