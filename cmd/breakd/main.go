package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"breakd/internal/di"
	"breakd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config/breakd.yaml", "path to the YAML config file")
	pflag.BoolVarP(&flags.DebugMode, "debug", "d", false, "enable debug mode")
	pflag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "breakd: %s\n", err)
		os.Exit(1)
	}
}
