package main

import (
	"context"

	"sealed-auction/internal/cli"
	"sealed-auction/utils"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		utils.Fatal("sealed-auction exited with error", map[string]any{"error": err.Error()})
	}
}
