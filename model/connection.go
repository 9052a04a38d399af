package model

// ConnectionType distinguishes cabling from wireless association.
type ConnectionType string

const (
	ConnectionWired ConnectionType = "wired"
	ConnectionWiFi  ConnectionType = "wifi"
)

// Connection is an undirected edge between two device ports.
//
// A wired port appears in at most one connection. Port 0 may appear in
// at most one connection per client device (a client joins one Wi-Fi
// network at a time), but many clients may share a host's port 0.
type Connection struct {
	ID        string         `json:"id" yaml:"id"`
	DeviceA   string         `json:"device_a" yaml:"device_a"`
	PortA     int            `json:"port_a" yaml:"port_a"`
	DeviceB   string         `json:"device_b" yaml:"device_b"`
	PortB     int            `json:"port_b" yaml:"port_b"`
	Type      ConnectionType `json:"type" yaml:"type"`
	SpeedMbps int            `json:"speed_mbps,omitempty" yaml:"speed_mbps,omitempty"`
}

// Involves reports whether either end of the connection touches the
// given device.
func (c *Connection) Involves(deviceID string) bool {
	return c.DeviceA == deviceID || c.DeviceB == deviceID
}

// OtherEnd returns the device on the far side of the connection, or ""
// if deviceID is not an endpoint.
func (c *Connection) OtherEnd(deviceID string) string {
	switch deviceID {
	case c.DeviceA:
		return c.DeviceB
	case c.DeviceB:
		return c.DeviceA
	}
	return ""
}
