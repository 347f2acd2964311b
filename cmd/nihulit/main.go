package main

import (
	"context"
	"os"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
