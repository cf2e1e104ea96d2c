package main

import (
	"os"

	"github.com/eirs-ng/vras/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
