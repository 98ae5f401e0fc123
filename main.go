package main

import (
	"os"

	"github.com/AkhilKumar-Git/super-hire-ai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
