package main

import (
	"github.com/crmlabs/order/internal/app"
	"github.com/crmlabs/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
