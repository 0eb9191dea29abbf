// Package main finds the charge hold time that lands a throw at a given
// distance on flat ground.
//
// Usage: go run ./cmd/aimtune -distance 20 -pitch 30
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/throwcore/config"
)

// evalRow is one objective evaluation.
type evalRow struct {
	Eval     int     `csv:"eval"`
	HoldMs   float64 `csv:"hold_ms"`
	Force    float64 `csv:"force"`
	Landing  float64 `csv:"landing"`
	ErrorSq  float64 `csv:"error_sq"`
	PitchDeg float64 `csv:"pitch_deg"`
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	distance := flag.Float64("distance", 20, "Target landing distance in world units")
	pitchDeg := flag.Float64("pitch", 30, "Launch pitch in degrees")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	output := flag.String("output", "", "CSV file for the evaluation log (empty = none)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	rng := NewRange(cfg)
	pitch := *pitchDeg * math.Pi / 180

	minD, okMin := rng.Landing(rng.Hold(0), pitch)
	maxD, okMax := rng.Landing(rng.Hold(1), pitch)
	if !okMin || !okMax {
		log.Fatal("throws at this pitch never land")
	}
	fmt.Printf("Reach at %.0f°: %.2f .. %.2f\n", *pitchDeg, minD, maxD)
	if *distance < minD || *distance > maxD {
		log.Fatalf("distance %.2f out of reach", *distance)
	}

	var rows []*evalRow
	objective := rng.Objective(*distance, pitch)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			f := objective(x)
			hold := rng.Hold(x[0])
			land, _ := rng.Landing(hold, pitch)
			rows = append(rows, &evalRow{
				Eval:     len(rows) + 1,
				HoldMs:   float64(hold.Microseconds()) / 1000,
				Force:    rng.Force(hold),
				Landing:  land,
				ErrorSq:  f,
				PitchDeg: *pitchDeg,
			})
			return f
		},
	}

	// start from the linear guess between the two extremes
	x0 := []float64{(*distance - minD) / (maxD - minD)}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if result == nil {
		log.Fatal("no result")
	}

	hold := rng.Hold(result.X[0])
	land, _ := rng.Landing(hold, pitch)
	fmt.Printf("Evaluations: %d\n", len(rows))
	fmt.Printf("Hold: %v  Force: %.3f  Landing: %.3f  (target %.3f)\n",
		hold, rng.Force(hold), land, *distance)

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer f.Close()
		if err := gocsv.MarshalFile(&rows, f); err != nil {
			log.Printf("failed to write evaluation log: %v", err)
		}
	}
}
