package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/rover.go/pkg/cli/keypad"
	"github.com/robotalks/rover.go/pkg/link"
	"github.com/robotalks/rover.go/pkg/link/serialport"
)

func init() {
	serialport.SetupFlags()
}

func main() {
	flag.Parse()

	port, err := serialport.NewConfig().Open()
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()

	follower := link.NewFollower()
	responder := serialport.NewResponder(port, follower)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := responder.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalln(err)
		}
	}()

	keypad.New(follower).Run()
}
