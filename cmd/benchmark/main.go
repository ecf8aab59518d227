package main

import (
	"flag"
	"log"
	"mlfqbench/pkg/app"
	"mlfqbench/pkg/benchmark"
	"mlfqbench/pkg/environment"
	"mlfqbench/pkg/probe"
	"mlfqbench/pkg/ticks"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	if err := app.LoadConfig(configPath); err != nil {
		log.Fatalln(err.Error())
	}

	env, err := environment.Setup("benchmark", ticks.New().Hz(), probe.New().Source())
	if err != nil {
		log.Fatalln(err.Error())
	}

	_, err = benchmark.Run(env, *configPath)
	if err != nil {
		log.Fatalln(err.Error())
	}

	err = environment.Shutdown()
	if err != nil {
		log.Fatalln(err.Error())
	}
}
