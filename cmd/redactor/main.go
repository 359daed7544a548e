package main

import (
	"os"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
