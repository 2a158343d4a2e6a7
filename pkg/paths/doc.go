/*
Package paths enumerates replayable event paths through a machine's
reachable configuration space, driving coverage-oriented test generation.

Shortest paths come from BFS over the adjacency map, simple (cycle-free)
paths from DFS, and explicit event sequences from replay. All traversals
explore edges in the machine's declared event order, so results are
deterministic across runs.
*/
package paths
