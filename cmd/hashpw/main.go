package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/99minutos/identity-service/internal/tools/hashpw"
)

func main() {
	cfg, err := hashpw.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		exitf("parse flags: %v", err)
	}
	if err := hashpw.Run(cfg, os.Stdin, os.Stdout); err != nil {
		exitf("hash password: %v", err)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
