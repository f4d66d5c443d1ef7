// Package mdflow is the public surface of the macro-data-flow engine: a
// builder that wires user functions into a directed acyclic graph, and an
// executor that fires validated graphs on a fixed worker pool.
//
// A minimal pipeline:
//
//	b := mdflow.NewBuilder()
//	inc, _ := b.Add(mdflow.Unary(func(x int) int { return x + 1 }))
//	dbl, _ := b.Add(mdflow.Unary(func(x int) int { return x * 2 }))
//	_ = b.SendTo(inc, dbl)
//	_ = b.MarkAsInput(inc)
//	_ = b.MarkAsOutput(dbl)
//
//	ex := mdflow.NewExecutor(0) // 0 = one worker per CPU
//	defer ex.Close()
//
//	fut, _ := ex.Run(b.Graph(), 3)
//	out, _ := fut.Wait(context.Background())
//	result := mdflow.ValueOf[int](out[0]) // 8
package mdflow
