package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/netfabrik/topology-engine/model"
	"github.com/netfabrik/topology-engine/workspace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testRouter serves a small routed topology:
// pc1(192.168.1.10) - sw1 - r1 - sw2 - pc2(10.0.0.10).
func testRouter(t *testing.T) (*gin.Engine, *workspace.Workspace) {
	t.Helper()
	ws := workspace.New()
	add := func(d *model.Device) {
		t.Helper()
		if err := ws.AddDevice(d); err != nil {
			t.Fatalf("AddDevice %s: %v", d.ID, err)
		}
	}
	add(&model.Device{ID: "pc1", Type: model.DeviceTypePC, PortCount: 1})
	add(&model.Device{ID: "sw1", Type: model.DeviceTypeSwitch, PortCount: 8})
	add(&model.Device{ID: "r1", Type: model.DeviceTypeRouter, PortCount: 4, DHCPEnabled: true, DHCPRangeStart: "192.168.1.100", DHCPRangeEnd: "192.168.1.150"})
	add(&model.Device{ID: "sw2", Type: model.DeviceTypeSwitch, PortCount: 8})
	add(&model.Device{ID: "pc2", Type: model.DeviceTypePC, PortCount: 1})

	set := func(in *model.Interface) {
		t.Helper()
		if err := ws.UpsertInterface(in); err != nil {
			t.Fatalf("UpsertInterface %s:%d: %v", in.DeviceID, in.Port, err)
		}
	}
	set(&model.Interface{DeviceID: "r1", Port: 1, IPAddress: "192.168.1.1/24"})
	set(&model.Interface{DeviceID: "r1", Port: 2, IPAddress: "10.0.0.1/24"})
	set(&model.Interface{DeviceID: "pc1", Port: 1, IPAddress: "192.168.1.10/24"})
	set(&model.Interface{DeviceID: "pc2", Port: 1, IPAddress: "10.0.0.10/24"})

	cable := func(a string, pa int, b string, pb int) {
		t.Helper()
		if _, err := ws.Connect(&model.Connection{DeviceA: a, PortA: pa, DeviceB: b, PortB: pb}); err != nil {
			t.Fatalf("Connect %s:%d-%s:%d: %v", a, pa, b, pb, err)
		}
	}
	cable("pc1", 1, "sw1", 1)
	cable("sw1", 2, "r1", 1)
	cable("r1", 2, "sw2", 1)
	cable("sw2", 2, "pc2", 1)

	return NewServer(ws, nil, nil).Router(), ws
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var decoded map[string]any
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rr.Body.String(), err)
		}
	}
	return rr, decoded
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t)
	rr, body := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz = %d %v", rr.Code, body)
	}
}

func TestSegmentsEndpoint(t *testing.T) {
	router, _ := testRouter(t)
	rr, body := doJSON(t, router, http.MethodGet, "/api/segments", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	// Two populated subnets plus a one-port domain for each of the
	// router's three spare ports.
	segments, ok := body["segments"].([]any)
	if !ok || len(segments) != 5 {
		t.Fatalf("segments = %v, want 5 entries", body["segments"])
	}
	viable := 0
	for _, raw := range segments {
		if raw.(map[string]any)["viable"] == true {
			viable++
		}
	}
	if viable != 2 {
		t.Errorf("viable segments = %d, want 2", viable)
	}
}

func TestReachableEndpoint(t *testing.T) {
	router, _ := testRouter(t)
	rr, body := doJSON(t, router, http.MethodGet, "/api/reachable/pc1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := body["reachable"].([]any); len(got) != 5 {
		t.Fatalf("reachable = %v, want all 5 devices", got)
	}

	rr, _ = doJSON(t, router, http.MethodGet, "/api/reachable/ghost", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown device status = %d, want 404", rr.Code)
	}
}

func TestPathEndpoint(t *testing.T) {
	router, ws := testRouter(t)
	rr, body := doJSON(t, router, http.MethodGet, "/api/path?from=pc1&to=pc2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body["hops"] != float64(4) {
		t.Fatalf("hops = %v, want 4", body["hops"])
	}

	rr, _ = doJSON(t, router, http.MethodGet, "/api/path?from=pc1", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing param status = %d, want 400", rr.Code)
	}

	if err := ws.AddDevice(&model.Device{ID: "lonely", Type: model.DeviceTypePC, PortCount: 1}); err != nil {
		t.Fatalf("AddDevice: %v", err)
	}
	rr, _ = doJSON(t, router, http.MethodGet, "/api/path?from=pc1&to=lonely", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unreachable status = %d, want 404", rr.Code)
	}
}

func TestFlowsEndpoint(t *testing.T) {
	router, _ := testRouter(t)
	rr, body := doJSON(t, router, http.MethodGet, "/api/flows", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := body["active"].([]any); len(got) != 4 {
		t.Fatalf("active = %v, want 4 connections", got)
	}
}

func TestPingEndpoint(t *testing.T) {
	router, _ := testRouter(t)
	rr, body := doJSON(t, router, http.MethodPost, "/api/ping",
		`{"src_device":"pc1","src_port":1,"dst_device":"pc2","dst_port":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body["success"] != true {
		t.Fatalf("ping failed: %v", body)
	}
	if hops := body["hops"].([]any); len(hops) != 5 {
		t.Fatalf("hops = %d, want 5", len(hops))
	}

	rr, _ = doJSON(t, router, http.MethodPost, "/api/ping", `{"src_device":"pc1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("incomplete body status = %d, want 400", rr.Code)
	}
}

func TestValidateIPEndpoint(t *testing.T) {
	router, _ := testRouter(t)
	rr, body := doJSON(t, router, http.MethodPost, "/api/validate-ip",
		`{"ip":"192.168.1.50/24","device":"pc1","port":1}`)
	if rr.Code != http.StatusOK || body["valid"] != true {
		t.Fatalf("matching ip = %d %v", rr.Code, body)
	}

	_, body = doJSON(t, router, http.MethodPost, "/api/validate-ip",
		`{"ip":"172.16.0.5/24","device":"pc1","port":1}`)
	if body["valid"] != false || body["warning"] == nil {
		t.Fatalf("mismatched ip = %v, want invalid with warning", body)
	}

	_, body = doJSON(t, router, http.MethodPost, "/api/validate-ip",
		`{"ip":"not-an-ip","device":"pc1","port":1}`)
	if body["valid"] != false || body["error"] == nil {
		t.Fatalf("malformed ip = %v, want invalid with error", body)
	}
}

func TestDHCPNextEndpoint(t *testing.T) {
	router, _ := testRouter(t)
	rr, body := doJSON(t, router, http.MethodPost, "/api/dhcp-next",
		`{"device":"r1","port":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body["available"] != true || body["ip"] != "192.168.1.100" {
		t.Fatalf("dhcp-next = %v", body)
	}
}

func TestReplaceTopologyEndpoint(t *testing.T) {
	router, ws := testRouter(t)
	rr, _ := doJSON(t, router, http.MethodPut, "/api/topology", `{`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad body status = %d, want 400", rr.Code)
	}

	rr, body := doJSON(t, router, http.MethodPut, "/api/topology", `{
	  "devices": [
	    {"id": "solo", "type": "pc", "port_count": 1}
	  ]
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %v", rr.Code, body)
	}
	if body["devices"] != float64(1) {
		t.Fatalf("summary = %v, want 1 device", body)
	}
	if ws.Device("pc1") != nil {
		t.Fatalf("old topology survived the replace")
	}
}
