package main

import (
	"os"

	"github.com/inheritx/hr-portal/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
