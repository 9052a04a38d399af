// core/snapshot.go
package core

import (
	"sort"

	"github.com/netfabrik/topology-engine/model"
)

// PortRef names one interface: a device plus a port number. Port 0 is
// the virtual Wi-Fi interface.
type PortRef struct {
	DeviceID string `json:"device_id"`
	Port     int    `json:"port"`
}

// Snapshot is one consistent, immutable view of the topology. Every
// engine query is a pure function of a Snapshot: nothing here is ever
// mutated after construction, so a Snapshot can be shared between
// goroutines freely. Derived views (segments, paths, flow reports) are
// recomputed on every call rather than cached; callers that hammer the
// same static snapshot should cache results themselves.
type Snapshot struct {
	devices     map[string]*model.Device
	interfaces  map[PortRef]*model.Interface
	connections map[string]*model.Connection

	// connsByPort indexes connections by endpoint. A wired port holds
	// at most one entry; a Wi-Fi host's port 0 may hold many.
	connsByPort map[PortRef][]*model.Connection

	deviceIDs []string // sorted, for deterministic iteration
}

// NewSnapshot builds a snapshot from workspace records. Malformed rows
// are tolerated, not fatal: self-loop connections and connections whose
// endpoints reference unknown devices are dropped, and interfaces for
// unknown devices are ignored.
func NewSnapshot(devices []*model.Device, interfaces []*model.Interface, connections []*model.Connection) *Snapshot {
	s := &Snapshot{
		devices:     make(map[string]*model.Device, len(devices)),
		interfaces:  make(map[PortRef]*model.Interface, len(interfaces)),
		connections: make(map[string]*model.Connection, len(connections)),
		connsByPort: make(map[PortRef][]*model.Connection),
	}

	for _, d := range devices {
		if d == nil || d.ID == "" {
			continue
		}
		s.devices[d.ID] = d
	}
	s.deviceIDs = make([]string, 0, len(s.devices))
	for id := range s.devices {
		s.deviceIDs = append(s.deviceIDs, id)
	}
	sort.Strings(s.deviceIDs)

	for _, in := range interfaces {
		if in == nil || in.DeviceID == "" {
			continue
		}
		if _, ok := s.devices[in.DeviceID]; !ok {
			continue
		}
		s.interfaces[PortRef{in.DeviceID, in.Port}] = in
	}

	for _, c := range connections {
		if c == nil || c.ID == "" {
			continue
		}
		// A device cabled to itself is malformed input; skip it so
		// traversals cannot loop on a single node.
		if c.DeviceA == c.DeviceB {
			continue
		}
		if _, ok := s.devices[c.DeviceA]; !ok {
			continue
		}
		if _, ok := s.devices[c.DeviceB]; !ok {
			continue
		}
		s.connections[c.ID] = c
		s.connsByPort[PortRef{c.DeviceA, c.PortA}] = append(s.connsByPort[PortRef{c.DeviceA, c.PortA}], c)
		s.connsByPort[PortRef{c.DeviceB, c.PortB}] = append(s.connsByPort[PortRef{c.DeviceB, c.PortB}], c)
	}
	for _, conns := range s.connsByPort {
		sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })
	}

	return s
}

// Device returns a device by ID, or nil.
func (s *Snapshot) Device(id string) *model.Device {
	return s.devices[id]
}

// DeviceIDs returns all device IDs in sorted order.
func (s *Snapshot) DeviceIDs() []string {
	out := make([]string, len(s.deviceIDs))
	copy(out, s.deviceIDs)
	return out
}

// InterfaceAt returns the configuration of one port, or nil when the
// workspace never configured it. An unconfigured port still exists for
// traversal purposes.
func (s *Snapshot) InterfaceAt(ref PortRef) *model.Interface {
	return s.interfaces[ref]
}

// Connection returns a connection by ID, or nil.
func (s *Snapshot) Connection(id string) *model.Connection {
	return s.connections[id]
}

// ConnectionIDs returns all connection IDs in sorted order.
func (s *Snapshot) ConnectionIDs() []string {
	out := make([]string, 0, len(s.connections))
	for id := range s.connections {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ConnectionsAt returns the connections attached to one port. Wired
// ports see at most one; a Wi-Fi host's port 0 may see many.
func (s *Snapshot) ConnectionsAt(ref PortRef) []*model.Connection {
	return s.connsByPort[ref]
}

// PortsOf enumerates the ports a device owns, ascending: the virtual
// Wi-Fi port 0, the wired ports 1..PortCount, and any out-of-range
// port the workspace happens to reference in an interface or
// connection (user-edited data can be ahead of the port count).
func (s *Snapshot) PortsOf(deviceID string) []int {
	d := s.devices[deviceID]
	if d == nil {
		return nil
	}
	seen := map[int]bool{model.WiFiPort: true}
	for p := 1; p <= d.PortCount; p++ {
		seen[p] = true
	}
	for ref := range s.interfaces {
		if ref.DeviceID == deviceID {
			seen[ref.Port] = true
		}
	}
	for ref := range s.connsByPort {
		if ref.DeviceID == deviceID {
			seen[ref.Port] = true
		}
	}
	ports := make([]int, 0, len(seen))
	for p := range seen {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports
}

// Summary is a cheap count view used for logging and metrics gauges.
type Summary struct {
	Devices        int `json:"devices"`
	Interfaces     int `json:"interfaces"`
	Connections    int `json:"connections"`
	Segments       int `json:"segments"`
	ViableSegments int `json:"viable_segments"`
}

// Summarize derives the count view, including a fresh segment pass.
func (s *Snapshot) Summarize() Summary {
	sum := Summary{
		Devices:     len(s.devices),
		Interfaces:  len(s.interfaces),
		Connections: len(s.connections),
	}
	for _, seg := range s.Segments() {
		sum.Segments++
		if seg.Viable {
			sum.ViableSegments++
		}
	}
	return sum
}
