package domain

import "strings"

// Circuit is a group of exercises of one day sharing a circuit ID.
type Circuit struct {
	ID        string     `json:"circuitId"`
	Exercises []Exercise `json:"exercises"`
}

// CircuitGrouping partitions a day's exercises. Circuits are ordered by the
// first appearance of their ID; Standalone holds exercises without one.
type CircuitGrouping struct {
	Circuits   []Circuit  `json:"circuits"`
	Standalone []Exercise `json:"standalone"`
}

// Lookup returns the members of circuit id.
func (g CircuitGrouping) Lookup(id string) ([]Exercise, bool) {
	for _, c := range g.Circuits {
		if c.ID == id {
			return c.Exercises, true
		}
	}
	return nil, false
}

// GroupCircuits partitions exercises in a single pass. Every exercise lands
// in exactly one group and keeps its original relative order.
func GroupCircuits(exercises []Exercise) CircuitGrouping {
	g := CircuitGrouping{
		Circuits:   []Circuit{},
		Standalone: []Exercise{},
	}
	index := make(map[string]int)
	for _, ex := range exercises {
		id := strings.TrimSpace(ex.CircuitID)
		if id == "" {
			g.Standalone = append(g.Standalone, ex)
			continue
		}
		i, ok := index[id]
		if !ok {
			i = len(g.Circuits)
			index[id] = i
			g.Circuits = append(g.Circuits, Circuit{ID: id})
		}
		g.Circuits[i].Exercises = append(g.Circuits[i].Exercises, ex)
	}
	return g
}
