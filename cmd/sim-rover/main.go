package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/rover.go/pkg/bot"
	"github.com/robotalks/rover.go/pkg/cli/keypad"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/link"
	"github.com/robotalks/rover.go/pkg/telemetry"
	env "github.com/robotalks/rover.go/pkg/telemetry/env/controller"
)

func init() {
	env.SetControllerType("sim-rover", telemetry.ControllerMeta{Description: "Simulation: rover"})
	env.SetupFlags()
	bot.SetupFlags()
}

func main() {
	flag.Parse()

	env := env.NewConfig().MustNewEnv()
	follower := link.NewFollower()
	poller := link.NewPoller(link.NewLoopback(follower))
	ctl := bot.NewConfig().NewController(env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		loop := fx.NewLoop()
		loop.Add(env, ctl, poller)
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalln(err)
		}
	}()

	keypad.New(follower).Run()
}
