package main

import (
	"flag"
	"log"
	"mlfqbench/pkg/app"
	"mlfqbench/pkg/benchmark"
	"mlfqbench/pkg/runner"
	"mlfqbench/pkg/workload"
	"os"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	profile := flag.String("profile", workload.ProfileCycle, "workload profile ("+workload.ProfileUsage(workload.KindIO)+")")
	runID := flag.String("run", "", "id of the benchmark run this process belongs to")
	flag.Parse()

	if err := app.LoadConfig(configPath); err != nil {
		log.Fatalln(err.Error())
	}

	os.Exit(runner.Main(benchmark.ProgramIOBound, workload.KindIO, *profile, *runID))
}
