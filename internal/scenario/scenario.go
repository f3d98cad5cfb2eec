// Package scenario holds the catalog of scenario templates instances can
// be created from, generalized from the teacher's fixed adversary-archetype
// map (internal/game/adversaries.go) to scenario definitions: a name, a
// short description, the verbs allowed in it, and the generator params
// handed to Generator.Populate.
package scenario

// Template describes one scenario instances can be created from.
type Template struct {
	Name           string
	Description    string
	AllowedActions []string
	Params         map[string]any
}

// Catalog is the built-in set of scenario templates.
var Catalog = map[string]Template{
	"heist": {
		Name:        "heist",
		Description: "Steal a target item from a guarded store without getting caught.",
		AllowedActions: []string{
			"observe", "move", "talk", "negotiate", "buy", "steal", "interact",
		},
		Params: map[string]any{
			"store_count": 2, "npc_count": 3, "hazards": 1,
		},
	},
	"escape": {
		Name:        "escape",
		Description: "Reach the exit before running out of turns while avoiding hazards.",
		AllowedActions: []string{
			"observe", "move", "talk", "interact",
		},
		Params: map[string]any{
			"store_count": 0, "npc_count": 2, "hazards": 3,
		},
	},
	"trade_run": {
		Name:        "trade_run",
		Description: "Build capital by negotiating, buying, and trading across several stores.",
		AllowedActions: []string{
			"observe", "move", "talk", "negotiate", "buy", "trade", "hire", "interact",
		},
		Params: map[string]any{
			"store_count": 4, "npc_count": 4, "hazards": 0,
		},
	},
}

// Get returns a named template.
func Get(name string) (Template, bool) {
	t, ok := Catalog[name]
	return t, ok
}

// Names returns every known template name.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for k := range Catalog {
		names = append(names, k)
	}
	return names
}

// List returns every known template.
func List() []Template {
	out := make([]Template, 0, len(Catalog))
	for _, t := range Catalog {
		out = append(out, t)
	}
	return out
}
