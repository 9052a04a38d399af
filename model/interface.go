package model

// WiFiPort is the reserved virtual port number every device implicitly
// has for wireless association. It never takes a cable.
const WiFiPort = 0

// PortMode mirrors switch port operating modes.
type PortMode string

const (
	PortModeAccess PortMode = "access"
	PortModeTrunk  PortMode = "trunk"
	PortModeHybrid PortMode = "hybrid"
)

// PortRole is a coarse uplink/downlink hint used for display.
type PortRole string

const (
	PortRoleUplink   PortRole = "uplink"
	PortRoleDownlink PortRole = "downlink"
)

// Interface is the per-port configuration of a device, keyed by
// (DeviceID, Port). Port 0 is the virtual Wi-Fi interface.
//
// Like Device, not every field applies to every capability profile:
// VLAN only matters under vlanSupport, the DHCP trio under dhcpCapable,
// and so on. Fields outside the profile are ignored, never rejected.
type Interface struct {
	DeviceID string `json:"device_id" yaml:"device_id"`
	Port     int    `json:"port" yaml:"port"`

	Alias         string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Reserved      bool   `json:"reserved,omitempty" yaml:"reserved,omitempty"`
	ReservedLabel string `json:"reserved_label,omitempty" yaml:"reserved_label,omitempty"`
	SpeedMbps     int    `json:"speed_mbps,omitempty" yaml:"speed_mbps,omitempty"`

	VLAN       int      `json:"vlan,omitempty" yaml:"vlan,omitempty"` // 1–4094 when set
	IPAddress  string   `json:"ip_address,omitempty" yaml:"ip_address,omitempty"` // CIDR notation
	MACAddress string   `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	PortMode   PortMode `json:"port_mode,omitempty" yaml:"port_mode,omitempty"`
	PortRole   PortRole `json:"port_role,omitempty" yaml:"port_role,omitempty"`

	DHCPEnabled    bool   `json:"dhcp_enabled,omitempty" yaml:"dhcp_enabled,omitempty"`
	DHCPRangeStart string `json:"dhcp_range_start,omitempty" yaml:"dhcp_range_start,omitempty"`
	DHCPRangeEnd   string `json:"dhcp_range_end,omitempty" yaml:"dhcp_range_end,omitempty"`

	SSID     string `json:"ssid,omitempty" yaml:"ssid,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	NATEnabled bool   `json:"nat_enabled,omitempty" yaml:"nat_enabled,omitempty"`
	Gateway    string `json:"gateway,omitempty" yaml:"gateway,omitempty"`
}
