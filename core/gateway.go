// core/gateway.go
package core

import (
	"github.com/netfabrik/topology-engine/model"
)

// Gateway is the resolved governing subnet of a segment: the first
// gateway-capable interface with a parseable IP found while walking
// the broadcast domain.
type Gateway struct {
	Subnet     string `json:"subnet"`     // e.g. "192.168.1.0/24"
	IP         string `json:"ip"`         // the gateway's own address, bare
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Port       int    `json:"port"`
	Network    uint32 `json:"-"`
	Prefix     int    `json:"prefix"`
	Mask       uint32 `json:"-"`
}

// ResolveGateway finds the gateway governing one port by walking its
// broadcast domain. The walk stops at layer-3 devices like segment
// discovery does, except that the starting device itself is exempt:
// a router resolving one of its own ports must be able to see its own
// interfaces. First match wins; no attempt is made to rank gateways
// when several exist. Returns nil when the domain has none, which is a
// normal state, not an error.
func (s *Snapshot) ResolveGateway(deviceID string, port int) *Gateway {
	start := PortRef{deviceID, port}
	if s.devices[deviceID] == nil {
		return nil
	}
	members := s.walkDomain(start, make(map[PortRef]bool), true)
	return s.gatewayOfMembers(members)
}

// gatewayOfMembers scans member ports in discovery order for the first
// gateway-capable device whose interface carries a parseable CIDR IP.
func (s *Snapshot) gatewayOfMembers(members []PortRef) *Gateway {
	for _, ref := range members {
		dev := s.devices[ref.DeviceID]
		if dev == nil || !model.CapabilitiesOf(dev.Type).CanBeGateway {
			continue
		}
		in := s.interfaces[ref]
		if in == nil || in.IPAddress == "" {
			continue
		}
		info, err := ParseCIDR(in.IPAddress)
		if err != nil {
			continue
		}
		return &Gateway{
			Subnet:     info.String(),
			IP:         IPString(info.IP),
			DeviceID:   dev.ID,
			DeviceName: dev.Label(),
			Port:       ref.Port,
			Network:    info.Network,
			Prefix:     info.Prefix,
			Mask:       info.Mask,
		}
	}
	return nil
}
