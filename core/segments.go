// core/segments.go
package core

import (
	"github.com/netfabrik/topology-engine/model"
)

// Issue tags surfaced to callers when a segment (or connection) cannot
// carry traffic. The precedence in segmentReason is part of the
// contract: Subnet beats No DHCP beats the No GW fallback.
const (
	ReasonSubnet    = "Subnet"
	ReasonNoDHCP    = "No DHCP"
	ReasonNoGateway = "No GW"
	ReasonVLAN      = "VLAN"
)

// Segment is one derived L2 broadcast domain: the maximal set of
// interfaces reachable without crossing a layer-3 device. Gateway-
// capable devices sit on the boundary: their reached port belongs to
// the segment, their other ports start new ones.
//
// Segments are recomputed from the snapshot on every query and
// discarded after use; nothing stores them.
type Segment struct {
	Ports   []PortRef `json:"ports"` // in BFS discovery order
	Gateway *Gateway  `json:"gateway,omitempty"`
	Viable  bool      `json:"viable"`
	Reason  string    `json:"reason,omitempty"` // set when not viable
}

// Contains reports membership of a port in the segment.
func (seg *Segment) Contains(ref PortRef) bool {
	for _, p := range seg.Ports {
		if p == ref {
			return true
		}
	}
	return false
}

// Segments partitions every port of every device into broadcast
// domains, seeding a traversal from each unvisited port. A port with
// no connection still forms a domain: an unplugged device keeps its
// ports together (sibling expansion), while each spare port of a
// layer-3 device isolates into its own one-port segment. A configured
// but unplugged gateway therefore still surfaces as a viable segment.
func (s *Snapshot) Segments() []*Segment {
	visited := make(map[PortRef]bool)
	var segments []*Segment

	for _, deviceID := range s.deviceIDs {
		for _, port := range s.PortsOf(deviceID) {
			start := PortRef{deviceID, port}
			if visited[start] {
				continue
			}
			members := s.walkDomain(start, visited, false)
			seg := &Segment{Ports: members}
			s.assessSegment(seg)
			segments = append(segments, seg)
		}
	}
	return segments
}

// SegmentFor returns the segment containing the given port, or nil
// when the device is unknown or the port is not one it owns.
func (s *Snapshot) SegmentFor(ref PortRef) *Segment {
	for _, seg := range s.Segments() {
		if seg.Contains(ref) {
			return seg
		}
	}
	return nil
}

// walkDomain runs the broadcast-domain BFS from start. Expansion rules:
//
//   - every connection attached to a reached port is crossed, except
//     connections split by mismatched access VLANs (see canCross);
//   - the sibling ports of a reached device are pulled in, unless the
//     device is layer 3. An L3 device is a boundary member whose other
//     ports are not expanded. When exemptStart is set the start device
//     is excused from the stop rule, so a gateway walk launched from a
//     router port can still see that router's own interfaces.
//
// visited may be shared across walks (segment partitioning) or fresh
// (a one-off gateway walk).
func (s *Snapshot) walkDomain(start PortRef, visited map[PortRef]bool, exemptStart bool) []PortRef {
	var members []PortRef
	queue := []PortRef{start}
	visited[start] = true

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		members = append(members, ref)

		dev := s.devices[ref.DeviceID]
		if dev == nil {
			continue
		}
		caps := model.CapabilitiesOf(dev.Type)

		expandSiblings := caps.Layer != model.Layer3
		if exemptStart && ref.DeviceID == start.DeviceID {
			expandSiblings = true
		}
		if expandSiblings {
			for _, p := range s.PortsOf(ref.DeviceID) {
				sib := PortRef{ref.DeviceID, p}
				if !visited[sib] {
					visited[sib] = true
					queue = append(queue, sib)
				}
			}
		}

		for _, c := range s.connsByPort[ref] {
			if !s.canCross(c) {
				continue
			}
			peer := PortRef{c.DeviceA, c.PortA}
			if ref.DeviceID == c.DeviceA && ref.Port == c.PortA {
				peer = PortRef{c.DeviceB, c.PortB}
			}
			if !visited[peer] {
				visited[peer] = true
				queue = append(queue, peer)
			}
		}
	}
	return members
}

// canCross decides whether a broadcast domain extends across a
// connection. Two access-mode ports pinned to different VLANs on
// VLAN-capable devices do not share a domain; trunk and hybrid ports
// always carry the domain through.
func (s *Snapshot) canCross(c *model.Connection) bool {
	a := s.interfaces[PortRef{c.DeviceA, c.PortA}]
	b := s.interfaces[PortRef{c.DeviceB, c.PortB}]
	if a == nil || b == nil {
		return true
	}
	if a.VLAN == 0 || b.VLAN == 0 || a.VLAN == b.VLAN {
		return true
	}
	if !s.vlanApplies(c.DeviceA) || !s.vlanApplies(c.DeviceB) {
		return true
	}
	if isTrunkLike(a.PortMode) || isTrunkLike(b.PortMode) {
		return true
	}
	return false
}

func (s *Snapshot) vlanApplies(deviceID string) bool {
	dev := s.devices[deviceID]
	return dev != nil && model.CapabilitiesOf(dev.Type).VLANSupport
}

func isTrunkLike(m model.PortMode) bool {
	return m == model.PortModeTrunk || m == model.PortModeHybrid
}

// assessSegment resolves the segment's gateway and decides viability.
// A segment can carry traffic when it has a resolvable gateway, or two
// interfaces already agreeing on a subnet, or a configured DHCP server
// with somebody to serve.
func (s *Snapshot) assessSegment(seg *Segment) {
	seg.Gateway = s.gatewayOfMembers(seg.Ports)

	if seg.Gateway != nil {
		seg.Viable = true
		return
	}
	if s.hasMatchingSubnets(seg.Ports) {
		seg.Viable = true
		return
	}
	if s.hasDHCPServer(seg.Ports, true) && len(seg.Ports) > 1 {
		seg.Viable = true
		return
	}

	seg.Viable = false
	seg.Reason = s.segmentReason(seg.Ports)
}

// segmentReason picks the single diagnostic tag for a dead segment.
// Priority: interfaces carry IPs that never agree -> Subnet; otherwise
// no DHCP server anywhere -> No DHCP; otherwise the catch-all No GW.
func (s *Snapshot) segmentReason(members []PortRef) string {
	hasIPs := false
	for _, ref := range members {
		if in := s.interfaces[ref]; in != nil && in.IPAddress != "" {
			hasIPs = true
			break
		}
	}
	if hasIPs {
		return ReasonSubnet
	}
	if !s.hasDHCPServer(members, false) {
		return ReasonNoDHCP
	}
	return ReasonNoGateway
}

func (s *Snapshot) hasMatchingSubnets(members []PortRef) bool {
	var ips []string
	for _, ref := range members {
		if in := s.interfaces[ref]; in != nil && in.IPAddress != "" {
			ips = append(ips, in.IPAddress)
		}
	}
	for i := 0; i < len(ips); i++ {
		for j := i + 1; j < len(ips); j++ {
			if SameSubnet(ips[i], ips[j]) {
				return true
			}
		}
	}
	return false
}

// hasDHCPServer looks for a DHCP-capable member with DHCP switched on.
// With requireRange set, both range endpoints must also be configured
// (the viability check); without it, presence alone counts (the reason
// tag check).
func (s *Snapshot) hasDHCPServer(members []PortRef, requireRange bool) bool {
	for _, ref := range members {
		dev := s.devices[ref.DeviceID]
		if dev == nil || !model.CapabilitiesOf(dev.Type).DHCPCapable {
			continue
		}
		enabled, start, end := s.dhcpConfigAt(ref)
		if !enabled {
			continue
		}
		if !requireRange || (start != "" && end != "") {
			return true
		}
	}
	return false
}

// dhcpConfigAt returns the effective DHCP settings of a port: the
// interface row wins when it enables DHCP, otherwise the device-level
// fields apply.
func (s *Snapshot) dhcpConfigAt(ref PortRef) (enabled bool, start, end string) {
	if in := s.interfaces[ref]; in != nil && in.DHCPEnabled {
		return true, in.DHCPRangeStart, in.DHCPRangeEnd
	}
	if dev := s.devices[ref.DeviceID]; dev != nil && dev.DHCPEnabled {
		return true, dev.DHCPRangeStart, dev.DHCPRangeEnd
	}
	return false, "", ""
}
