// core/dhcp.go
package core

import (
	"github.com/netfabrik/topology-engine/model"
)

// NextDHCPIP computes the address a DHCP-serving port would hand out
// next: the lowest address in its configured range not already held by
// one of the host device's Wi-Fi clients (the client-side virtual
// interface IP, CIDR suffix ignored).
//
// Returns ("", false) when the port serves no DHCP, a range endpoint
// is not a plain dotted IPv4, the range is inverted, or the whole pool
// is taken. Note the range endpoints deliberately use the plain-IP
// grammar, not CIDR.
func (s *Snapshot) NextDHCPIP(deviceID string, port int) (string, bool) {
	enabled, startStr, endStr := s.dhcpConfigAt(PortRef{deviceID, port})
	if !enabled {
		return "", false
	}
	start, err := ParseIPv4(startStr)
	if err != nil {
		return "", false
	}
	end, err := ParseIPv4(endStr)
	if err != nil {
		return "", false
	}
	if start > end {
		return "", false
	}

	assigned := s.wifiClientAddresses(deviceID)
	for ip := start; ; ip++ {
		if !assigned[ip] {
			return IPString(ip), true
		}
		if ip == end {
			return "", false
		}
	}
}

// wifiClientAddresses collects the parsed port-0 addresses of every
// client the given device serves over Wi-Fi. Associations where the
// device sits on the client side do not count: the far end there is a
// host, not a lease holder.
func (s *Snapshot) wifiClientAddresses(hostID string) map[uint32]bool {
	assigned := make(map[uint32]bool)
	for _, c := range s.connections {
		if c.Type != model.ConnectionWiFi || s.wifiHostEnd(c) != hostID {
			continue
		}
		client := c.OtherEnd(hostID)
		in := s.interfaces[PortRef{client, model.WiFiPort}]
		if in == nil || in.IPAddress == "" {
			continue
		}
		ip, err := ParseIPv4(BareIP(in.IPAddress))
		if err != nil {
			continue
		}
		assigned[ip] = true
	}
	return assigned
}

// wifiHostEnd names the serving side of a Wi-Fi association: the first
// end whose device can host, or "" when neither can.
func (s *Snapshot) wifiHostEnd(c *model.Connection) string {
	if s.canHostWiFi(c.DeviceA) {
		return c.DeviceA
	}
	if s.canHostWiFi(c.DeviceB) {
		return c.DeviceB
	}
	return ""
}

func (s *Snapshot) canHostWiFi(deviceID string) bool {
	d := s.devices[deviceID]
	return d != nil && model.CapabilitiesOf(d.Type).WiFiHost
}
