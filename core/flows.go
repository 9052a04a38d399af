// core/flows.go
package core

import (
	"sort"

	"github.com/netfabrik/topology-engine/model"
)

// FlowReport says which connections are carrying live traffic between
// traffic endpoints, and tags the ones that cannot. Issue values come
// from the segment reason tags, plus ReasonVLAN for a connection whose
// two ports resolve to no common segment at all.
type FlowReport struct {
	Active []string          `json:"active"` // connection ids, sorted
	Issues map[string]string `json:"issues,omitempty"`
}

// IsActive reports whether a connection id was classified active.
func (r *FlowReport) IsActive(connID string) bool {
	for _, id := range r.Active {
		if id == connID {
			return true
		}
	}
	return false
}

// ClassifyFlows decides which connections would show traffic. Traffic
// endpoints are cloud devices plus every device with an interface on a
// viable segment that is addressed or addressable (IP, gateway, DHCP
// or NAT). Each unordered endpoint pair contributes its shortest path
// over viable connections; every connection traversed is active.
//
// When fewer than two endpoints exist the classifier falls back to
// marking every connection between IP-bearing devices on viable
// segments. That branch is a documented heuristic inherited from the
// original design; do not "improve" it without revisiting callers.
func (s *Snapshot) ClassifyFlows() *FlowReport {
	segments := s.Segments()

	// Per-port segment lookup, and per-connection segment: the segment
	// containing both endpoints of the connection (nil when the ports
	// landed in different domains, e.g. crossed VLANs).
	portSeg := make(map[PortRef]*Segment)
	for _, seg := range segments {
		for _, ref := range seg.Ports {
			portSeg[ref] = seg
		}
	}
	connSeg := make(map[string]*Segment, len(s.connections))
	issues := make(map[string]string)
	viableConn := make(map[string]bool, len(s.connections))
	for id, c := range s.connections {
		segA := portSeg[PortRef{c.DeviceA, c.PortA}]
		segB := portSeg[PortRef{c.DeviceB, c.PortB}]
		switch {
		case segA == nil || segA != segB:
			issues[id] = ReasonVLAN
		case !segA.Viable:
			connSeg[id] = segA
			issues[id] = segA.Reason
		default:
			connSeg[id] = segA
			viableConn[id] = true
		}
	}

	endpoints := s.trafficEndpoints(portSeg)

	active := make(map[string]bool)
	if len(endpoints) < 2 {
		// Degenerate fallback: no point-to-point pairs to route, so
		// light up whatever connects IP-bearing devices on viable
		// segments.
		hasViableIP := s.devicesWithViableIP(portSeg)
		for id, c := range s.connections {
			if hasViableIP[c.DeviceA] && hasViableIP[c.DeviceB] {
				active[id] = true
			}
		}
	} else {
		allow := func(c *model.Connection) bool {
			return c != nil && viableConn[c.ID]
		}
		for i := 0; i < len(endpoints); i++ {
			for j := i + 1; j < len(endpoints); j++ {
				_, connIDs := s.bfsPath(endpoints[i], endpoints[j], allow)
				for _, id := range connIDs {
					if viableConn[id] {
						active[id] = true
					}
				}
			}
		}
	}

	report := &FlowReport{Issues: issues}
	for id := range active {
		report.Active = append(report.Active, id)
	}
	sort.Strings(report.Active)
	return report
}

// trafficEndpoints returns, sorted, every device that traffic would
// originate from or terminate at.
func (s *Snapshot) trafficEndpoints(portSeg map[PortRef]*Segment) []string {
	var out []string
	for _, id := range s.deviceIDs {
		dev := s.devices[id]
		caps := model.CapabilitiesOf(dev.Type)
		if caps.Layer == model.LayerCloud {
			out = append(out, id)
			continue
		}
		if s.deviceQualifies(dev, portSeg) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Snapshot) deviceQualifies(dev *model.Device, portSeg map[PortRef]*Segment) bool {
	deviceConfigured := dev.DHCPEnabled || dev.NATEnabled || dev.Gateway != ""
	for _, p := range s.PortsOf(dev.ID) {
		ref := PortRef{dev.ID, p}
		seg := portSeg[ref]
		if seg == nil || !seg.Viable {
			continue
		}
		if deviceConfigured {
			return true
		}
		in := s.interfaces[ref]
		if in == nil {
			continue
		}
		if in.IPAddress != "" || in.Gateway != "" || in.DHCPEnabled || in.NATEnabled {
			return true
		}
	}
	return false
}

func (s *Snapshot) devicesWithViableIP(portSeg map[PortRef]*Segment) map[string]bool {
	out := make(map[string]bool)
	for ref, in := range s.interfaces {
		if in.IPAddress == "" {
			continue
		}
		if seg := portSeg[ref]; seg != nil && seg.Viable {
			out[ref.DeviceID] = true
		}
	}
	return out
}
