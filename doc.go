// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package meshsim provides a gate level simulator for hierarchical digital logic
designs.

A design is a set of chip instances and the wires that connect their pins.
Chips are instances of templates: leaf templates evaluate one of the builtin
Logic functions, composite templates wrap another design. Before it can be
simulated, a design is flattened into a Mesh: every set of electrically
connected pins collapses into a single node and only leaf chips remain.

A Simulation owns a Mesh and a fixed pool of worker goroutines. Each tick, the
workers evaluate their share of the leaf chips against the committed node
values and write into a pending buffer, then the pending values are committed.
This is repeated until no node changes or until the configured maximum number
of settle iterations is reached, in which case the tick is flagged as
oscillating.

	d := meshsim.NewDesign("top", meshsim.In("a, b"), meshsim.Out("c, d"))
	d.Place("and0", meshsim.AndGate, "a=a, b=b, out=c")
	d.Place("not0", meshsim.NotGate, "in=c, out=d")

	sim, _ := meshsim.New(meshsim.WithWorkers(2))
	defer sim.Close()
	if err := sim.Reset(d); err != nil {
		// structural, validation or multi-driver error
	}
	sim.SetInput("a", true)
	sim.SetInput("b", true)
	sim.Step(1)
	v, _ := sim.Snapshot().Get("d") // false

*/
package meshsim
