package network

// Allocate pulls flow from every sink of the network.
//
// Sinks are visited in node order. Each sink requests every item it outputs,
// starting at its own rate (or opts.UnboundedRate when it has none) and
// lowering the remaining request by what each item was granted. Flow
// accumulates on the nodes it passes through. Allocate is a single greedy
// pass; it is not iterated to a fixed point.
func (n *Network) Allocate(opts Options) {
	for _, leaf := range n.Leaves() {
		capacity, ok := leaf.Capacity()
		if !ok {
			capacity = opts.unboundedRate()
		}
		for _, item := range n.outputs(leaf.ID, make(map[NodeID]bool)) {
			if capacity <= epsilon {
				break
			}
			capacity -= n.AskFlow(leaf.ID, item, capacity)
		}
	}
}

// AskFlow requests amount items per second of item from node id and returns
// the rate that was granted. The grant is accumulated on every node along
// the way. A zero grant is a normal outcome.
func (n *Network) AskFlow(id NodeID, item string, amount float64) float64 {
	if id < 0 || int(id) >= len(n.arena) {
		return 0
	}
	return n.ask(id, item, amount, make(map[NodeID]bool))
}

// TakeBackFlow retracts up to amount of a previous grant of item from node
// id and its suppliers, and returns the rate actually retracted.
func (n *Network) TakeBackFlow(id NodeID, item string, amount float64) float64 {
	if id < 0 || int(id) >= len(n.arena) {
		return 0
	}
	return n.takeBack(id, item, amount, make(map[NodeID]bool))
}

// ask dispatches a request. A node already on the request path grants
// nothing, so cycles terminate.
func (n *Network) ask(id NodeID, item string, amount float64, visiting map[NodeID]bool) float64 {
	if amount <= epsilon || visiting[id] {
		return 0
	}
	visiting[id] = true
	defer delete(visiting, id)

	if n.arena[id].IsAssembler() {
		return n.askAssembler(id, item, amount, visiting)
	}
	return n.askTransport(id, item, amount, visiting)
}

func (n *Network) askTransport(id NodeID, item string, amount float64, visiting map[NodeID]bool) float64 {
	node := n.arena[id]
	if !node.carriesItem(item) {
		return 0
	}
	if room, ok := node.headroom(); ok {
		if room <= epsilon {
			return 0
		}
		amount = min(amount, room)
	}
	granted := n.askParents(node.Parents, item, amount, visiting)
	node.Flow.Add(item, granted)
	return granted
}

// askParents offers amount to parents in declaration order, each one the
// part still unmet. A node without parents is a source and grants it all.
func (n *Network) askParents(parents []NodeID, item string, amount float64, visiting map[NodeID]bool) float64 {
	if len(parents) == 0 {
		return amount
	}
	var total float64
	for _, parent := range parents {
		total += n.ask(parent, item, amount-total, visiting)
		if amount-total <= epsilon {
			break
		}
	}
	return total
}

type supply struct {
	item  string
	total float64
	from  []grant
}

type grant struct {
	parent NodeID
	amount float64
}

func (n *Network) askAssembler(id NodeID, item string, amount float64, visiting map[NodeID]bool) float64 {
	node := n.arena[id]
	c := node.Component
	if c.Recipe == nil || c.Recipe.Result.Name != item {
		return 0
	}
	rate := c.Rate
	avail := rate - node.Flow.Total()
	if rate <= 0 || avail <= epsilon {
		return 0
	}
	produce := min(amount, avail)
	usage := produce / rate

	if len(node.Parents) == 0 {
		node.Flow.Add(item, produce)
		return produce
	}

	supplies := make([]supply, 0, len(node.Inputs))
	for _, in := range node.Inputs {
		target := c.NominalRate(in.Name) * usage
		s := supply{item: in.Name}
		for _, parent := range node.Parents {
			got := n.ask(parent, in.Name, target-s.total, visiting)
			s.from = append(s.from, grant{parent: parent, amount: got})
			s.total += got
			if target-s.total <= epsilon {
				break
			}
		}
		supplies = append(supplies, s)
		if s.total <= epsilon {
			usage = 0
			break
		}
		if target > epsilon {
			usage *= min(s.total/target, 1)
		}
	}

	produced := usage * rate
	node.Flow.Add(item, produced)

	// Give back what the weakest ingredient made unnecessary.
	for _, s := range supplies {
		excess := s.total - usage*c.NominalRate(s.item)
		if excess <= epsilon {
			continue
		}
		for _, g := range s.from {
			excess -= n.takeBack(g.parent, s.item, excess, visiting)
			if excess <= epsilon {
				break
			}
		}
	}
	return produced
}

func (n *Network) takeBack(id NodeID, item string, amount float64, visiting map[NodeID]bool) float64 {
	if amount <= epsilon || visiting[id] {
		return 0
	}
	visiting[id] = true
	defer delete(visiting, id)

	node := n.arena[id]
	if node.IsAssembler() {
		return n.takeBackAssembler(node, item, amount, visiting)
	}
	if !node.carriesItem(item) {
		return 0
	}
	amount = min(amount, node.Flow.Get(item))
	if amount <= epsilon {
		return 0
	}
	taken := n.takeBackParents(node.Parents, item, amount, visiting)
	return node.Flow.Reduce(item, taken)
}

func (n *Network) takeBackParents(parents []NodeID, item string, amount float64, visiting map[NodeID]bool) float64 {
	if len(parents) == 0 {
		return amount
	}
	var total float64
	for _, parent := range parents {
		total += n.takeBack(parent, item, amount-total, visiting)
		if amount-total <= epsilon {
			break
		}
	}
	return total
}

func (n *Network) takeBackAssembler(node *Node, item string, amount float64, visiting map[NodeID]bool) float64 {
	c := node.Component
	if c.Recipe == nil || c.Recipe.Result.Name != item || c.Rate <= 0 {
		return 0
	}
	total := node.Flow.Total()
	if total <= epsilon {
		return 0
	}
	amount = min(amount, total)
	share := amount / total
	usage := total / c.Rate

	for _, in := range node.Inputs {
		n.takeBackParents(node.Parents, in.Name, usage*c.NominalRate(in.Name)*share, visiting)
	}
	return node.Flow.Reduce(item, amount)
}
