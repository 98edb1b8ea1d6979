package pathfind

// frontierItem is one (node, tentative cost) entry in the priority frontier.
type frontierItem struct {
	node string
	cost float64
}

// frontier is a binary min-heap ordered by tentative cost. Relaxations push
// fresh entries instead of decreasing keys, so a node can appear more than
// once; stale entries are discarded when popped.
type frontier []frontierItem

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].cost < f[j].cost }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(frontierItem))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
