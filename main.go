package main

import "eventfoundry-api/app"

func main() {
	app.Run()
}
