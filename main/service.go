package main

import (
	"flag"
	"log"

	"samset/server"
)

func main() {
	flag.Parse()
	log.Println("Hello!")
	server.StartService()
	log.Println("Bye!")
}
