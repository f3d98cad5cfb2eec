package generator

import (
	"fmt"
	"math"

	"github.com/lucas/simhost/internal/worldstate"
)

// populateDeterministic scatters a fixed-shape set of stores, npcs, a
// hazard, an exit and a target item across the world using noise-driven
// placement, so an instance still reaches active status with no AI agent
// registered for scenario_generator.
func (g *Generator) populateDeterministic(world *worldstate.WorldState, templateName string, params map[string]any) {
	seed := int64(len(templateName))
	for _, c := range templateName {
		seed = seed*31 + int64(c)
	}
	noise := NewNoiseGenerator(seed)

	world.Properties["template"] = templateName
	world.Properties["pricing_multiplier"] = 1.0
	world.Properties["max_turns"] = 100.0

	storeCount := 2
	npcCount := 3
	if n, ok := params["store_count"].(int); ok && n > 0 {
		storeCount = n
	}
	if n, ok := params["npc_count"].(int); ok && n > 0 {
		npcCount = n
	}

	scatter := func(i int, salt float64) worldstate.Position {
		nx := noise.Eval2D(float64(i)*1.37+salt, salt*2.1)
		ny := noise.Eval2D(salt*2.1, float64(i)*1.37+salt)
		return worldstate.Position{X: nx * world.Width, Y: ny * world.Height}
	}

	for i := 0; i < storeCount; i++ {
		pos := scatter(i, 11.0)
		store := worldstate.NewEntity(fmt.Sprintf("store-%d", i), worldstate.EntityStore, pos)
		store.Set("gold", 500.0)
		store.Set("items", []worldstate.ItemRecord{
			{ItemID: fmt.Sprintf("item-%d-a", i), Name: "trinket", Value: 10 + 5*float64(i)},
			{ItemID: fmt.Sprintf("item-%d-b", i), Name: "supply", Value: 25 + 5*float64(i)},
		})
		world.AddEntity(store)
	}

	for i := 0; i < npcCount; i++ {
		pos := scatter(i, 53.0)
		npc := worldstate.NewEntity(fmt.Sprintf("npc-%d", i), worldstate.EntityNPC, pos)
		npc.Set("trust", 0.5)
		npc.Set("mood", "neutral")
		npc.Set("health", 100.0)
		npc.Set("max_health", 100.0)
		if i == 0 {
			npc.Set("role", "guard")
		}
		world.AddEntity(npc)
	}

	hazardPos := scatter(0, 97.0)
	hazard := worldstate.NewEntity("hazard-0", worldstate.EntityHazard, hazardPos)
	hazard.Set("radius", 30.0)
	hazard.Set("damage", 25.0)
	world.AddEntity(hazard)

	exitX := math.Min(world.Width*0.9, world.Width-10)
	exitY := math.Min(world.Height*0.9, world.Height-10)
	exit := worldstate.NewEntity("exit-0", worldstate.EntityExit, worldstate.Position{X: exitX, Y: exitY})
	exit.Set("radius", 20.0)
	world.AddEntity(exit)

	if storeCount > 0 {
		world.Properties["target_item_id"] = "item-0-a"
	}
}
