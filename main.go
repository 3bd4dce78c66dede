package main

import (
	"os"

	"github.com/authdesk/authdesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
