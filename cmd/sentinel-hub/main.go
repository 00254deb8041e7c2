package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/autopeer-io/sentinel/cmd/sentinel-hub/app"
)

func main() {
	app.NewApp().Run()
}
