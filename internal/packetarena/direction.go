// Package packetarena defines the routed packet type, its directionality
// state machine, and a per-simulation-run arena that owns every packet
// created during a run.
package packetarena

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Direction indexes a core's six in/out wires. The ordering (N, E, W, S,
// U, D) matches the order in which the original mesh-construction code
// enumerates a core's neighbors.
type Direction int

// The six cardinal directions a core can route toward.
const (
	North Direction = iota
	East
	West
	South
	Up
	Down
)

var directionNames = [...]string{"north", "east", "west", "south", "up", "down"}

var titleCaser = cases.Title(language.English)

// String returns the lowercase direction name, e.g. "east".
func (d Direction) String() string {
	if d < North || d > Down {
		return "invalid"
	}
	return directionNames[d]
}

// TitleString returns the title-cased direction name, e.g. "East", for use
// in log lines and report tables.
func (d Direction) TitleString() string {
	return titleCaser.String(d.String())
}

// Opposite returns the direction a neighbor would use to refer back to the
// core this direction points away from.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	case Down:
		return Up
	default:
		return d
	}
}
