// Package topology loads the JSON circuit description the simulator dumps
// after elaborating a netlist, checks it, and renders it for inspection.
//
// A circuit is a bipartite graph: elements connect through numbered ports
// to nets, and nets carry either optical (OANALOG) or electrical (EANALOG)
// signals.
//
//	c, err := topology.LoadFile("circuit.json")
//	if err := c.Validate(); err != nil { ... }
//	c.RenderDOT(os.Stdout) // pipe into: sfdp -Tpng
//
// Components finds the disconnected sub-circuits with a breadth-first sweep.
package topology
