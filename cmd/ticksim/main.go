// Command ticksim runs the mesh routing simulator from the command
// line: it assembles a topology, attaches a workload generator, runs
// the tick loop, and prints the required summary lines.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/ticksim/internal/report"
	"github.com/sarchlab/ticksim/internal/simulator"
	"github.com/sarchlab/ticksim/internal/topology"
	"github.com/sarchlab/ticksim/internal/workload"
)

func main() {
	topologyFlag := flag.String("topology", "mesh", "topology: mesh or 3Dmesh")
	workloadFlag := flag.String("workload", "toy", "workload: toy or random")
	nCores := flag.Int("n_cores", 4096, "approximate number of cores")
	ticks := flag.Int("t", 100, "number of ticks to simulate")
	distance := flag.Int("distance", 1, "mean axis distance hint for the random workload")
	probability := flag.Float64("probability", 1e-4, "per-neuron, per-tick spike probability for the random workload")
	seed := flag.Int64("seed", 1, "seed for the simulator's random source")
	flag.Parse()

	dimensions, err := dimensionsFor(*topologyFlag)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if *ticks < 1 {
		log.Fatalf("configuration error: t must be positive")
	}

	width := widthFor(*nCores, dimensions)
	if *nCores < 1 {
		log.Fatalf("configuration error: n_cores too small for a %dD mesh", dimensions)
	}

	mesh := topology.NewBuilder().
		WithDimensions(dimensions).
		WithWidth(width).
		Build()

	rng := rand.New(rand.NewSource(*seed))
	gen, showDistance, err := workloadFor(*workloadFlag, mesh, dimensions, *distance, *probability, rng)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	sim := simulator.New(mesh, gen, rng)
	sim.Run(*ticks)

	fmt.Printf("Total number of packet delays: %d\n", sim.Stats.TotalDelay)
	if showDistance {
		fmt.Printf("total distance traveled: %d\n", sim.Stats.TotalDistance)
	}

	report.Write(os.Stdout, report.Summary{
		Injected:           sim.Stats.Injected,
		DestroyedByArrival: sim.Stats.DestroyedByArrival,
		DestroyedByEdge:    sim.Stats.DestroyedByEdge,
		LiveAtEnd:          sim.LiveAtEnd(),
		TotalDelay:         sim.Stats.TotalDelay,
		TotalDistance:      sim.Stats.TotalDistance,
		ShowDistance:       showDistance,
	})

	atexit.Exit(0)
}

func dimensionsFor(topologyName string) (int, error) {
	switch topologyName {
	case "mesh":
		return 2, nil
	case "3Dmesh":
		return 3, nil
	default:
		return 0, fmt.Errorf("unknown topology %q", topologyName)
	}
}

func widthFor(nCores, dimensions int) int {
	width := 1
	for pow(width+1, dimensions) <= nCores {
		width++
	}
	return width
}

func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func workloadFor(
	workloadName string,
	mesh *topology.Mesh,
	dimensions, distance int,
	probability float64,
	rng *rand.Rand,
) (gen workload.Generator, showDistance bool, err error) {
	switch workloadName {
	case "toy":
		return workload.SingleHop(0, distance, 0, 0), false, nil
	case "random":
		return workload.NewRandomGenerator(dimensions, len(mesh.Cores), probability, distance, rng), true, nil
	default:
		return nil, false, fmt.Errorf("unknown workload %q", workloadName)
	}
}
