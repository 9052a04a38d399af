// core/paths.go
package core

import (
	"sort"

	"github.com/netfabrik/topology-engine/model"
)

// ReachableFrom returns every device reachable from the start over raw
// connectivity, the start itself included. Every connection counts
// here regardless of segment viability; this is the "is there any
// cabling at all" view. The result is sorted. An unknown device yields
// nil.
func (s *Snapshot) ReachableFrom(deviceID string) []string {
	if s.devices[deviceID] == nil {
		return nil
	}
	seen := map[string]bool{deviceID: true}
	queue := []string{deviceID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, adj := range s.Neighbors(cur) {
			if !seen[adj.PeerID] {
				seen[adj.PeerID] = true
				queue = append(queue, adj.PeerID)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ShortestPath returns a minimum-hop device path from one device to
// another, or nil when unreachable. From == to yields the single-
// element path. Ties between equal-length paths break on the sorted
// neighbor order, so repeated calls agree.
func (s *Snapshot) ShortestPath(from, to string) []string {
	path, _ := s.bfsPath(from, to, nil)
	return path
}

// bfsPath is the parent-pointer BFS shared by ShortestPath and the
// flow classifier. allow may restrict which connections can be used;
// nil allows all. The second result lists the connection ids used for
// each hop (len(path)-1 entries).
func (s *Snapshot) bfsPath(from, to string, allow func(*model.Connection) bool) ([]string, []string) {
	if s.devices[from] == nil || s.devices[to] == nil {
		return nil, nil
	}
	if from == to {
		return []string{from}, nil
	}

	parents := map[string]parentLink{from: {}}
	queue := []string{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, adj := range s.Neighbors(cur) {
			if allow != nil && !allow(s.connections[adj.ConnectionID]) {
				continue
			}
			if _, seen := parents[adj.PeerID]; seen {
				continue
			}
			parents[adj.PeerID] = parentLink{device: cur, connID: adj.ConnectionID}
			if adj.PeerID == to {
				return s.rebuildPath(parents, from, to)
			}
			queue = append(queue, adj.PeerID)
		}
	}
	return nil, nil
}

type parentLink struct {
	device string
	connID string
}

func (s *Snapshot) rebuildPath(parents map[string]parentLink, from, to string) ([]string, []string) {
	var path, conns []string
	for cur := to; cur != from; {
		link := parents[cur]
		path = append(path, cur)
		conns = append(conns, link.connID)
		cur = link.device
	}
	path = append(path, from)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	for i, j := 0, len(conns)-1; i < j; i, j = i+1, j-1 {
		conns[i], conns[j] = conns[j], conns[i]
	}
	return path, conns
}
