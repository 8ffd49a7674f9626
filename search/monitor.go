package search

import "github.com/poiesic/partkb/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to see how each stage narrows the candidates.
type SearchMonitor interface {
	Start(query core.Query)
	AfterStage(stage Stage, remaining int)
	Finish(matches []core.Match)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Query)        {}
func (n *noopMonitor) AfterStage(_ Stage, _ int) {}
func (n *noopMonitor) Finish(_ []core.Match)     {}
