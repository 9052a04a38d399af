// Package workspace holds the mutable topology a caller edits: devices,
// per-port interfaces and connections, behind a mutex. The engine never
// reads it directly; callers take an immutable core.Snapshot and query
// that.
package workspace

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/netfabrik/topology-engine/core"
	"github.com/netfabrik/topology-engine/model"
)

// EventType indicates what kind of change happened in the workspace.
type EventType int

const (
	EventDeviceAdded EventType = iota
	EventDeviceRemoved
	EventInterfaceUpdated
	EventConnected
	EventDisconnected
	EventReplaced
)

// Event is emitted to subscribers after a mutation commits.
type Event struct {
	Type         EventType
	DeviceID     string
	Port         int
	ConnectionID string
}

// Workspace is an in-memory, thread-safe store for the editable
// topology.
type Workspace struct {
	mu sync.RWMutex

	devices     map[string]*model.Device
	interfaces  map[core.PortRef]*model.Interface
	connections map[string]*model.Connection

	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(Event)
}

// New constructs an empty workspace.
func New() *Workspace {
	return &Workspace{
		devices:     make(map[string]*model.Device),
		interfaces:  make(map[core.PortRef]*model.Interface),
		connections: make(map[string]*model.Connection),
	}
}

// AddDevice adds a new device. It returns an error if the ID is empty
// or already taken.
func (w *Workspace) AddDevice(d *model.Device) error {
	if d == nil || d.ID == "" {
		return fmt.Errorf("device with empty ID")
	}
	w.mu.Lock()
	if _, exists := w.devices[d.ID]; exists {
		w.mu.Unlock()
		return fmt.Errorf("device with ID %q already exists", d.ID)
	}
	cp := *d
	w.devices[d.ID] = &cp
	w.mu.Unlock()

	w.notify(Event{Type: EventDeviceAdded, DeviceID: d.ID})
	return nil
}

// UpdateDevice replaces the stored record for an existing device.
func (w *Workspace) UpdateDevice(d *model.Device) error {
	if d == nil || d.ID == "" {
		return fmt.Errorf("device with empty ID")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.devices[d.ID]; !exists {
		return fmt.Errorf("device with ID %q not found", d.ID)
	}
	cp := *d
	w.devices[d.ID] = &cp
	return nil
}

// RemoveDevice deletes a device together with its interfaces and every
// connection touching it.
func (w *Workspace) RemoveDevice(id string) error {
	w.mu.Lock()
	if _, exists := w.devices[id]; !exists {
		w.mu.Unlock()
		return fmt.Errorf("device with ID %q not found", id)
	}
	delete(w.devices, id)
	for ref := range w.interfaces {
		if ref.DeviceID == id {
			delete(w.interfaces, ref)
		}
	}
	for cid, c := range w.connections {
		if c.Involves(id) {
			delete(w.connections, cid)
		}
	}
	w.mu.Unlock()

	w.notify(Event{Type: EventDeviceRemoved, DeviceID: id})
	return nil
}

// Device returns a copy of the device with the given ID, or nil.
func (w *Workspace) Device(id string) *model.Device {
	w.mu.RLock()
	defer w.mu.RUnlock()
	d, ok := w.devices[id]
	if !ok {
		return nil
	}
	cp := *d
	return &cp
}

// ListDevices returns copies of all devices, sorted by ID.
func (w *Workspace) ListDevices() []*model.Device {
	w.mu.RLock()
	defer w.mu.RUnlock()
	res := make([]*model.Device, 0, len(w.devices))
	for _, d := range w.devices {
		cp := *d
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// UpsertInterface sets per-port configuration. The device must exist
// and the port must be one the device has.
func (w *Workspace) UpsertInterface(in *model.Interface) error {
	if in == nil {
		return fmt.Errorf("nil interface")
	}
	w.mu.Lock()
	d, ok := w.devices[in.DeviceID]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("device with ID %q not found", in.DeviceID)
	}
	if in.Port < 0 || in.Port > d.PortCount {
		w.mu.Unlock()
		return fmt.Errorf("device %q has no port %d", in.DeviceID, in.Port)
	}
	cp := *in
	w.interfaces[core.PortRef{DeviceID: in.DeviceID, Port: in.Port}] = &cp
	w.mu.Unlock()

	w.notify(Event{Type: EventInterfaceUpdated, DeviceID: in.DeviceID, Port: in.Port})
	return nil
}

// RemoveInterface clears the configuration on a port. Removing a port
// that carries none is not an error.
func (w *Workspace) RemoveInterface(deviceID string, port int) {
	w.mu.Lock()
	delete(w.interfaces, core.PortRef{DeviceID: deviceID, Port: port})
	w.mu.Unlock()
}

// InterfaceAt returns a copy of the configuration on a port, or nil.
func (w *Workspace) InterfaceAt(deviceID string, port int) *model.Interface {
	w.mu.RLock()
	defer w.mu.RUnlock()
	in, ok := w.interfaces[core.PortRef{DeviceID: deviceID, Port: port}]
	if !ok {
		return nil
	}
	cp := *in
	return &cp
}

// Connect cables two ports, or associates a wifi client with a host
// when the connection type is wifi. An empty ID gets a generated one;
// the assigned ID is returned.
//
// Occupancy rules: a wired port holds at most one cable. Wifi uses
// port 0 on both ends; a client holds at most one association while a
// host may serve many.
func (w *Workspace) Connect(c *model.Connection) (string, error) {
	if c == nil {
		return "", fmt.Errorf("nil connection")
	}
	if c.DeviceA == c.DeviceB {
		return "", fmt.Errorf("connection endpoints must differ, got %q twice", c.DeviceA)
	}
	if c.Type == "" {
		c.Type = model.ConnectionWired
	}

	w.mu.Lock()
	if err := w.checkEndpoint(c, c.DeviceA, c.PortA); err != nil {
		w.mu.Unlock()
		return "", err
	}
	if err := w.checkEndpoint(c, c.DeviceB, c.PortB); err != nil {
		w.mu.Unlock()
		return "", err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if _, exists := w.connections[c.ID]; exists {
		w.mu.Unlock()
		return "", fmt.Errorf("connection with ID %q already exists", c.ID)
	}
	cp := *c
	w.connections[c.ID] = &cp
	w.mu.Unlock()

	w.notify(Event{Type: EventConnected, ConnectionID: c.ID})
	return c.ID, nil
}

func (w *Workspace) checkEndpoint(c *model.Connection, deviceID string, port int) error {
	d, ok := w.devices[deviceID]
	if !ok {
		return fmt.Errorf("device with ID %q not found", deviceID)
	}
	if c.Type == model.ConnectionWiFi {
		if port != model.WiFiPort {
			return fmt.Errorf("wifi connection must use port %d on %q, got %d", model.WiFiPort, deviceID, port)
		}
		caps := model.CapabilitiesOf(d.Type)
		if caps.WiFiHost {
			return nil // hosts serve any number of clients
		}
		if !caps.WiFiClient {
			return fmt.Errorf("device %q (%s) cannot join wifi", deviceID, d.Type)
		}
		for _, other := range w.connections {
			if other.Type == model.ConnectionWiFi && other.Involves(deviceID) {
				return fmt.Errorf("device %q is already associated via %q", deviceID, other.ID)
			}
		}
		return nil
	}

	if port < 1 || port > d.PortCount {
		return fmt.Errorf("device %q has no port %d", deviceID, port)
	}
	for _, other := range w.connections {
		if other.Type != model.ConnectionWired {
			continue
		}
		if (other.DeviceA == deviceID && other.PortA == port) ||
			(other.DeviceB == deviceID && other.PortB == port) {
			return fmt.Errorf("port %d on %q is occupied by %q", port, deviceID, other.ID)
		}
	}
	return nil
}

// Disconnect removes a connection by ID.
func (w *Workspace) Disconnect(id string) error {
	w.mu.Lock()
	if _, exists := w.connections[id]; !exists {
		w.mu.Unlock()
		return fmt.Errorf("connection with ID %q not found", id)
	}
	delete(w.connections, id)
	w.mu.Unlock()

	w.notify(Event{Type: EventDisconnected, ConnectionID: id})
	return nil
}

// ListConnections returns copies of all connections, sorted by ID.
func (w *Workspace) ListConnections() []*model.Connection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	res := make([]*model.Connection, 0, len(w.connections))
	for _, c := range w.connections {
		cp := *c
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Replace swaps the whole topology for the scenario's records in one
// step, e.g. after loading a file.
func (w *Workspace) Replace(sc *core.Scenario) {
	w.mu.Lock()
	w.devices = make(map[string]*model.Device, len(sc.Devices))
	for _, d := range sc.Devices {
		cp := *d
		w.devices[d.ID] = &cp
	}
	w.interfaces = make(map[core.PortRef]*model.Interface, len(sc.Interfaces))
	for _, in := range sc.Interfaces {
		cp := *in
		w.interfaces[core.PortRef{DeviceID: in.DeviceID, Port: in.Port}] = &cp
	}
	w.connections = make(map[string]*model.Connection, len(sc.Connections))
	for _, c := range sc.Connections {
		cp := *c
		w.connections[c.ID] = &cp
	}
	w.mu.Unlock()

	w.notify(Event{Type: EventReplaced})
}

// Snapshot builds the immutable engine view of the current contents.
func (w *Workspace) Snapshot() *core.Snapshot {
	w.mu.RLock()
	devices := make([]*model.Device, 0, len(w.devices))
	for _, d := range w.devices {
		cp := *d
		devices = append(devices, &cp)
	}
	interfaces := make([]*model.Interface, 0, len(w.interfaces))
	for _, in := range w.interfaces {
		cp := *in
		interfaces = append(interfaces, &cp)
	}
	connections := make([]*model.Connection, 0, len(w.connections))
	for _, c := range w.connections {
		cp := *c
		connections = append(connections, &cp)
	}
	w.mu.RUnlock()

	return core.NewSnapshot(devices, interfaces, connections)
}

// Subscribe registers a callback for workspace events. It returns an
// unsubscribe function. Callbacks run outside the lock.
func (w *Workspace) Subscribe(fn func(Event)) (unsubscribe func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextSub
	w.nextSub++
	w.subs = append(w.subs, subscriber{id: id, fn: fn})

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for i, sub := range w.subs {
			if sub.id == id {
				w.subs = append(w.subs[:i], w.subs[i+1:]...)
				return
			}
		}
	}
}

func (w *Workspace) notify(e Event) {
	w.mu.RLock()
	subs := append([]subscriber{}, w.subs...)
	w.mu.RUnlock()
	for _, sub := range subs {
		sub.fn(e)
	}
}
