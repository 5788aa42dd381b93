package main

import (
	"log"

	"github.com/armorup/bew/internal/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatal(err.Error())
	}
}
