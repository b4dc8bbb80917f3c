package main

import (
	"fmt"
	"os"

	"github.com/reconlab/wba-recon/internal/cli"
	"github.com/reconlab/wba-recon/internal/infrastructure/config"
)

func main() {
	flags := cli.ParseServeFlags()
	cfg := config.LoadOrEnv(flags.Config)

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
