// core/topology.go
package core

import "sort"

// Adjacency is one hop away from a device: the peer, the ports on both
// sides, and the connection that carries it.
type Adjacency struct {
	PeerID       string `json:"peer_id"`
	PeerPort     int    `json:"peer_port"`
	LocalPort    int    `json:"local_port"`
	ConnectionID string `json:"connection_id"`
}

// Neighbors derives the device-level adjacency list from the raw
// connection set. The view is rebuilt per call; the snapshot holds no
// graph object. Ordering is deterministic (peer id, then ports) so
// BFS-based queries give stable answers.
func (s *Snapshot) Neighbors(deviceID string) []Adjacency {
	var out []Adjacency
	for _, c := range s.connections {
		switch deviceID {
		case c.DeviceA:
			out = append(out, Adjacency{
				PeerID:       c.DeviceB,
				PeerPort:     c.PortB,
				LocalPort:    c.PortA,
				ConnectionID: c.ID,
			})
		case c.DeviceB:
			out = append(out, Adjacency{
				PeerID:       c.DeviceA,
				PeerPort:     c.PortA,
				LocalPort:    c.PortB,
				ConnectionID: c.ID,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PeerID != out[j].PeerID {
			return out[i].PeerID < out[j].PeerID
		}
		if out[i].LocalPort != out[j].LocalPort {
			return out[i].LocalPort < out[j].LocalPort
		}
		return out[i].ConnectionID < out[j].ConnectionID
	})
	return out
}
