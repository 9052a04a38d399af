// core/helpers_test.go
package core

import (
	"github.com/netfabrik/topology-engine/model"
)

// Builders shared by the engine tests. They keep topology setup short
// without hiding anything interesting.

func dev(id string, t model.DeviceType, ports int) *model.Device {
	return &model.Device{ID: id, Name: id, Type: t, PortCount: ports}
}

func iface(deviceID string, port int, ip string) *model.Interface {
	return &model.Interface{DeviceID: deviceID, Port: port, IPAddress: ip}
}

func wired(id, a string, pa int, b string, pb int) *model.Connection {
	return &model.Connection{ID: id, DeviceA: a, PortA: pa, DeviceB: b, PortB: pb, Type: model.ConnectionWired}
}

func wifi(id, host string, client string) *model.Connection {
	return &model.Connection{
		ID: id, DeviceA: host, PortA: model.WiFiPort,
		DeviceB: client, PortB: model.WiFiPort, Type: model.ConnectionWiFi,
	}
}

// chainTopology wires PC-switch-router-switch-PC, the canonical
// two-segment shape.
func chainTopology() *Snapshot {
	devices := []*model.Device{
		dev("pc1", model.DeviceTypePC, 1),
		dev("sw1", model.DeviceTypeSwitch, 8),
		dev("r1", model.DeviceTypeRouter, 4),
		dev("sw2", model.DeviceTypeSwitch, 8),
		dev("pc2", model.DeviceTypePC, 1),
	}
	interfaces := []*model.Interface{
		iface("r1", 1, "192.168.1.1/24"),
		iface("r1", 2, "10.0.0.1/24"),
	}
	connections := []*model.Connection{
		wired("c1", "pc1", 1, "sw1", 1),
		wired("c2", "sw1", 2, "r1", 1),
		wired("c3", "r1", 2, "sw2", 1),
		wired("c4", "sw2", 2, "pc2", 1),
	}
	return NewSnapshot(devices, interfaces, connections)
}

func segmentOf(snap *Snapshot, ref PortRef) *Segment {
	return snap.SegmentFor(ref)
}
