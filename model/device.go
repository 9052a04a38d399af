package model

// DeviceType is the closed set of device kinds a workspace can place
// on the canvas. Unknown values are treated as DeviceTypePC by the
// capability lookup.
type DeviceType string

const (
	DeviceTypeSwitch       DeviceType = "switch"
	DeviceTypeRouter       DeviceType = "router"
	DeviceTypePC           DeviceType = "pc"
	DeviceTypeServer       DeviceType = "server"
	DeviceTypeIPPhone      DeviceType = "ip-phone"
	DeviceTypeSmartphone   DeviceType = "smartphone"
	DeviceTypeCamera       DeviceType = "camera"
	DeviceTypeFirewall     DeviceType = "firewall"
	DeviceTypeAccessPoint  DeviceType = "access-point"
	DeviceTypeCloud        DeviceType = "cloud"
	DeviceTypeHub          DeviceType = "hub"
	DeviceTypePatchPanel   DeviceType = "patch-panel"
	DeviceTypeNAS          DeviceType = "nas"
	DeviceTypePrinter      DeviceType = "printer"
	DeviceTypeLoadBalancer DeviceType = "load-balancer"
	DeviceTypeModem        DeviceType = "modem"
	DeviceTypeLaptop       DeviceType = "laptop"
	DeviceTypeTablet       DeviceType = "tablet"
)

// Device is one placed device. The record is owned and mutated by the
// workspace-editing layer; the engine only ever reads it.
//
// Device-level fields past PortCount are only meaningful when the
// device's capability profile enables them (ManagementIP needs
// managementIp, the DHCP trio needs dhcpCapable, SSID/Password need
// wifiHost). The engine ignores fields outside the profile instead of
// rejecting them.
type Device struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Type      DeviceType `json:"type" yaml:"type"`
	PortCount int        `json:"port_count" yaml:"port_count"` // 0 means Wi-Fi only

	ManagementIP string `json:"management_ip,omitempty" yaml:"management_ip,omitempty"`
	NATEnabled   bool   `json:"nat_enabled,omitempty" yaml:"nat_enabled,omitempty"`
	Gateway      string `json:"gateway,omitempty" yaml:"gateway,omitempty"`

	DHCPEnabled    bool   `json:"dhcp_enabled,omitempty" yaml:"dhcp_enabled,omitempty"`
	DHCPRangeStart string `json:"dhcp_range_start,omitempty" yaml:"dhcp_range_start,omitempty"`
	DHCPRangeEnd   string `json:"dhcp_range_end,omitempty" yaml:"dhcp_range_end,omitempty"`

	SSID     string `json:"ssid,omitempty" yaml:"ssid,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Label returns the display name, falling back to the ID so hop
// records and warnings always have something to show.
func (d *Device) Label() string {
	if d == nil {
		return ""
	}
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
