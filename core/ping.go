// core/ping.go
package core

import (
	"fmt"
	"math"
	"math/rand"
)

// Hop is one device traversed by a simulated ping.
type Hop struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Port       int    `json:"port"`
	IPAddress  string `json:"ip_address,omitempty"`
	LatencyMs  int    `json:"latency_ms"`
}

// PingResult is the full outcome of a simulated ping: hop-by-hop
// records, summed one-way latency, round trip, and a display message.
type PingResult struct {
	Success     bool   `json:"success"`
	Hops        []Hop  `json:"hops"`
	TotalMs     int    `json:"total_ms"`
	RoundTripMs int    `json:"round_trip_ms"`
	Message     string `json:"message"`
}

// PingSimulator runs structural ping simulations. Success and failure
// are fully determined by the topology; Rand only feeds the synthetic
// per-hop latency, so tests pin it to a constant source.
type PingSimulator struct {
	Rand func() float64
}

// NewPingSimulator returns a simulator with the default random source.
func NewPingSimulator() *PingSimulator {
	return &PingSimulator{Rand: rand.Float64}
}

// Simulate pings from one interface to another. Both ends must carry
// an IP. The verdict follows raw reachability plus the subnet rule:
// endpoints in different subnets only reach each other if some
// interior hop device straddles both.
func (p *PingSimulator) Simulate(s *Snapshot, src, dst PortRef) *PingResult {
	srcIface := s.InterfaceAt(src)
	dstIface := s.InterfaceAt(dst)
	if srcIface == nil || srcIface.IPAddress == "" || dstIface == nil || dstIface.IPAddress == "" {
		return &PingResult{
			Success: false,
			Message: "Source and destination must have IP addresses",
		}
	}
	dstIP := BareIP(dstIface.IPAddress)

	path := s.ShortestPath(src.DeviceID, dst.DeviceID)
	if path == nil {
		return &PingResult{
			Success: false,
			Message: fmt.Sprintf("%s is unreachable", dstIP),
		}
	}

	result := &PingResult{Hops: make([]Hop, 0, len(path))}
	for i, devID := range path {
		hop := Hop{DeviceID: devID, DeviceName: s.Device(devID).Label()}
		switch {
		case i == 0:
			hop.Port = src.Port
			hop.IPAddress = srcIface.IPAddress
		case i == len(path)-1:
			hop.Port = dst.Port
			hop.IPAddress = dstIface.IPAddress
		default:
			// Interior hop: report the port facing the next device
			// on the path, with whatever address it carries.
			hop.Port, hop.IPAddress = s.egressPort(devID, path[i+1])
		}
		hop.LatencyMs = p.hopLatency(i)
		result.TotalMs += hop.LatencyMs
		result.Hops = append(result.Hops, hop)
	}
	result.RoundTripMs = 2 * result.TotalMs

	if !SameSubnet(srcIface.IPAddress, dstIface.IPAddress) &&
		!s.pathHasRouterAcross(path, srcIface.IPAddress, dstIface.IPAddress) {
		result.Success = false
		result.Message = "Destination host unreachable — different subnets with no router in path"
		return result
	}

	result.Success = true
	result.Message = fmt.Sprintf("Reply from %s: %d hop(s), time=%dms", dstIP, len(result.Hops)-1, result.TotalMs)
	return result
}

// hopLatency synthesizes a per-hop latency in milliseconds, growing
// slightly with hop index.
func (p *PingSimulator) hopLatency(index int) int {
	r := p.Rand
	if r == nil {
		r = rand.Float64
	}
	return int(math.Round(0.5 + r()*2 + float64(index)*0.3))
}

// egressPort finds the local port a device uses to reach the given
// neighbor, and that port's configured address if any.
func (s *Snapshot) egressPort(deviceID, nextID string) (int, string) {
	for _, adj := range s.Neighbors(deviceID) {
		if adj.PeerID != nextID {
			continue
		}
		if in := s.interfaces[PortRef{deviceID, adj.LocalPort}]; in != nil {
			return adj.LocalPort, in.IPAddress
		}
		return adj.LocalPort, ""
	}
	return 0, ""
}

// pathHasRouterAcross reports whether some interior device on the path
// carries addressed interfaces in both the source's and destination's
// subnets, i.e. can route between them.
func (s *Snapshot) pathHasRouterAcross(path []string, srcIP, dstIP string) bool {
	if len(path) < 3 {
		return false
	}
	for _, devID := range path[1 : len(path)-1] {
		matchesSrc, matchesDst := false, false
		for _, port := range s.PortsOf(devID) {
			in := s.interfaces[PortRef{devID, port}]
			if in == nil || in.IPAddress == "" {
				continue
			}
			if SameSubnet(in.IPAddress, srcIP) {
				matchesSrc = true
			}
			if SameSubnet(in.IPAddress, dstIP) {
				matchesDst = true
			}
		}
		if matchesSrc && matchesDst {
			return true
		}
	}
	return false
}
