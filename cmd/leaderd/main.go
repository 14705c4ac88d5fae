package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/rover.go/pkg/bot"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/link"
	"github.com/robotalks/rover.go/pkg/link/serialport"
	"github.com/robotalks/rover.go/pkg/telemetry"
	env "github.com/robotalks/rover.go/pkg/telemetry/env/controller"
)

func init() {
	env.SetControllerType("rover", telemetry.ControllerMeta{Description: "Rover Leader"})
	env.SetupFlags()
	serialport.SetupFlags()
	bot.SetupFlags()
}

func main() {
	flag.Parse()

	env := env.NewConfig().MustNewEnv()
	port, err := serialport.NewConfig().Open()
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()
	poller := link.NewPoller(serialport.NewExchanger(port))
	ctl := bot.NewConfig().NewController(env)
	fx.NewLoop().Add(env, ctl, poller).RunOrFail()
}
