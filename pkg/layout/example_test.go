package layout_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

func ExampleEngine_Layout() {
	g := motion.Graph{
		ID:        "delivery",
		Archetype: motion.ArchetypeProcess,
		Nodes: []motion.Node{
			{ID: "plan", Data: motion.NodeData{Label: "Plan"}},
			{ID: "build", Data: motion.NodeData{Label: "Build"}},
			{ID: "ship", Data: motion.NodeData{Label: "Ship"}},
		},
	}

	res, err := layout.New().Layout(context.Background(), g, layout.Options{})
	if err != nil {
		panic(err)
	}

	fmt.Printf("scale=%.0f natural=%.0fx%.0f\n", res.Transform.Scale, res.Natural.Width, res.Natural.Height)
	for _, n := range res.Graph.Nodes {
		p := res.Absolute(*n.Position)
		fmt.Printf("%s at (%.0f, %.0f)\n", n.ID, p.X, p.Y)
	}
	// Output:
	// scale=1 natural=608x130
	// plan at (656, 475)
	// build at (880, 475)
	// ship at (1104, 475)
}

func ExampleFamilyOf() {
	for _, a := range []motion.Archetype{
		motion.ArchetypeCycle,
		motion.ArchetypePyramid,
		motion.ArchetypeMindmap,
		motion.ArchetypeArchitecture,
	} {
		fmt.Println(a, "->", layout.FamilyOf(a))
	}
	// Output:
	// cycle -> flow
	// pyramid -> stack
	// mindmap -> radial
	// architecture -> general
}
