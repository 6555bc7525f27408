package knuth

// RestartReason tells why a forcing run restarted from a node.
type RestartReason int

const (
	// RestartTooShort restarts from the best line that was too short.
	RestartTooShort RestartReason = iota
	// RestartTooLong accepts the best overflowing line.
	RestartTooLong
	// RestartRecovery inserts an empty part before overflowing content.
	RestartRecovery
	// RestartRollback gives up recovery and accepts the first overflow.
	RestartRollback
)

func (r RestartReason) String() string {
	switch r {
	case RestartTooShort:
		return "too-short"
	case RestartTooLong:
		return "too-long"
	case RestartRecovery:
		return "recovery"
	case RestartRollback:
		return "rollback"
	default:
		return "unknown"
	}
}

// Observer receives events from an [Algorithm] run. Nodes passed to observers
// belong to the run and must not be modified.
type Observer interface {
	OnStart(seq *Sequence, start *Node)
	OnNodeCreated(n *Node)
	OnNodeDeactivated(n *Node)
	OnRestart(n *Node, reason RestartReason)
	OnFinish(selected []*Node)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) OnStart(*Sequence, *Node) {}
func (NopObserver) OnNodeCreated(*Node) {}
func (NopObserver) OnNodeDeactivated(*Node) {}
func (NopObserver) OnRestart(*Node, RestartReason) {}
func (NopObserver) OnFinish([]*Node) {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) OnStart(seq *Sequence, start *Node) {
	for _, ob := range o {
		ob.OnStart(seq, start)
	}
}

func (o Observers) OnNodeCreated(n *Node) {
	for _, ob := range o {
		ob.OnNodeCreated(n)
	}
}

func (o Observers) OnNodeDeactivated(n *Node) {
	for _, ob := range o {
		ob.OnNodeDeactivated(n)
	}
}

func (o Observers) OnRestart(n *Node, reason RestartReason) {
	for _, ob := range o {
		ob.OnRestart(n, reason)
	}
}

func (o Observers) OnFinish(selected []*Node) {
	for _, ob := range o {
		ob.OnFinish(selected)
	}
}
