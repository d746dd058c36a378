package neat

import "fmt"

// network is the evaluation plan of a genome. It stores arena indices only; weights and
// node kinds are read from the genome on every activation.
type network struct {
	inputs  []int   // Arena indices of input nodes, ascending history
	outputs []int   // Arena indices of output nodes, ascending history
	order   []int   // Arena indices in topological order
	edges   [][]int // Per arena index: indices into conns of enabled outgoing edges
	targets [][]int // Per arena index: arena index of each edge's target
}

// compileNetwork builds the evaluation plan with Kahn's algorithm over enabled
// connections. Dangling endpoints and cycles are corrupted genomes and panic.
func compileNetwork(nodes []NodeGene, conns []ConnectionGene) *network {
	net := &network{
		edges:   make([][]int, len(nodes)),
		targets: make([][]int, len(nodes)),
	}
	index := make(map[int]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		switch n.Kind {
		case InputNode:
			net.inputs = append(net.inputs, i)
		case OutputNode:
			net.outputs = append(net.outputs, i)
		}
	}

	inDegree := make([]int, len(nodes))
	for ci, c := range conns {
		if !c.Enabled {
			continue
		}
		src, ok := index[c.Source]
		if !ok {
			panic(fmt.Sprintf("neat: corrupted genome: connection #%d source %d not found", c.Innovation, c.Source))
		}
		dst, ok := index[c.Target]
		if !ok {
			panic(fmt.Sprintf("neat: corrupted genome: connection #%d target %d not found", c.Innovation, c.Target))
		}
		net.edges[src] = append(net.edges[src], ci)
		net.targets[src] = append(net.targets[src], dst)
		inDegree[dst]++
	}

	queue := make([]int, 0, len(nodes))
	for i := range nodes {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	net.order = make([]int, 0, len(nodes))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		net.order = append(net.order, u)
		for _, v := range net.targets[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if len(net.order) != len(nodes) {
		panic(fmt.Sprintf("neat: corrupted genome: enabled connections form a cycle (%d of %d nodes ordered)", len(net.order), len(nodes)))
	}
	return net
}

// activate runs one forward pass. Every node's value is reset at the start of the call.
func (net *network) activate(nodes []NodeGene, conns []ConnectionGene, fn ActivationType, inputs []float64) []float64 {
	values := make([]float64, len(nodes))
	for i, idx := range net.inputs {
		values[idx] = inputs[i]
	}

	for _, u := range net.order {
		if nodes[u].Kind == OutputNode {
			continue // Outputs only accumulate.
		}
		out := nodes[u].Activate(values[u], fn)
		for k, ci := range net.edges[u] {
			values[net.targets[u][k]] += out * conns[ci].Weight
		}
	}

	outputs := make([]float64, len(net.outputs))
	for i, idx := range net.outputs {
		outputs[i] = values[idx]
	}
	return outputs
}
