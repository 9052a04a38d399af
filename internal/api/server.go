// Package api exposes the topology engine's queries over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/netfabrik/topology-engine/core"
	"github.com/netfabrik/topology-engine/internal/logging"
	"github.com/netfabrik/topology-engine/internal/observability"
	"github.com/netfabrik/topology-engine/workspace"
)

// Server answers topology queries against the current workspace
// contents. Every request takes a fresh snapshot, so responses always
// reflect the latest edits.
type Server struct {
	ws        *workspace.Workspace
	log       logging.Logger
	collector *observability.APICollector
	ping      *core.PingSimulator
}

// NewServer wires the handlers. Logger and collector may be nil.
func NewServer(ws *workspace.Workspace, log logging.Logger, collector *observability.APICollector) *Server {
	if log == nil {
		log = logging.Noop()
	}
	s := &Server{
		ws:        ws,
		log:       log,
		collector: collector,
		ping:      core.NewPingSimulator(),
	}
	if collector != nil {
		ws.Subscribe(func(workspace.Event) { s.publishCounts() })
		s.publishCounts()
	}
	return s
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if s.collector != nil {
		router.Use(s.collector.Middleware())
		router.GET("/metrics", gin.WrapH(s.collector.Handler()))
	}

	router.GET("/healthz", s.handleHealthz)

	apiGroup := router.Group("/api")
	apiGroup.GET("/segments", s.handleSegments)
	apiGroup.GET("/reachable/:device", s.handleReachable)
	apiGroup.GET("/path", s.handlePath)
	apiGroup.GET("/flows", s.handleFlows)
	apiGroup.POST("/ping", s.handlePing)
	apiGroup.POST("/validate-ip", s.handleValidateIP)
	apiGroup.POST("/dhcp-next", s.handleDHCPNext)
	apiGroup.PUT("/topology", s.handleReplaceTopology)
	return router
}

func (s *Server) handleHealthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSegments(ctx *gin.Context) {
	snap := s.ws.Snapshot()
	segments := snap.Segments()
	ctx.JSON(http.StatusOK, gin.H{"segments": segments})
}

func (s *Server) handleReachable(ctx *gin.Context) {
	device := ctx.Param("device")
	snap := s.ws.Snapshot()
	reachable := snap.ReachableFrom(device)
	if reachable == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown device: " + device})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"device": device, "reachable": reachable})
}

func (s *Server) handlePath(ctx *gin.Context) {
	from := ctx.Query("from")
	to := ctx.Query("to")
	if from == "" || to == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}
	snap := s.ws.Snapshot()
	path := snap.ShortestPath(from, to)
	if path == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no path from " + from + " to " + to})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"path": path, "hops": len(path) - 1})
}

func (s *Server) handleFlows(ctx *gin.Context) {
	snap := s.ws.Snapshot()
	ctx.JSON(http.StatusOK, snap.ClassifyFlows())
}

type pingRequest struct {
	SrcDevice string `json:"src_device" binding:"required"`
	SrcPort   int    `json:"src_port"`
	DstDevice string `json:"dst_device" binding:"required"`
	DstPort   int    `json:"dst_port"`
}

func (s *Server) handlePing(ctx *gin.Context) {
	var req pingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.ws.Snapshot()
	res := s.ping.Simulate(snap,
		core.PortRef{DeviceID: req.SrcDevice, Port: req.SrcPort},
		core.PortRef{DeviceID: req.DstDevice, Port: req.DstPort},
	)
	ctx.JSON(http.StatusOK, res)
}

type validateIPRequest struct {
	IP     string `json:"ip" binding:"required"`
	Device string `json:"device" binding:"required"`
	Port   int    `json:"port"`
}

func (s *Server) handleValidateIP(ctx *gin.Context) {
	var req validateIPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.ws.Snapshot()
	res := snap.ValidatePortIP(req.IP, req.Device, req.Port)
	body := gin.H{"valid": res.Valid}
	if res.Warning != "" {
		body["warning"] = res.Warning
	}
	if res.GatewaySubnet != "" {
		body["gateway_subnet"] = res.GatewaySubnet
	}
	if res.Err != nil {
		body["error"] = res.Err.Error()
	}
	ctx.JSON(http.StatusOK, body)
}

type dhcpNextRequest struct {
	Device string `json:"device" binding:"required"`
	Port   int    `json:"port"`
}

func (s *Server) handleDHCPNext(ctx *gin.Context) {
	var req dhcpNextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.ws.Snapshot()
	ip, ok := snap.NextDHCPIP(req.Device, req.Port)
	ctx.JSON(http.StatusOK, gin.H{"available": ok, "ip": ip})
}

func (s *Server) handleReplaceTopology(ctx *gin.Context) {
	sc, summary, err := core.LoadScenario(ctx.Request.Body, "json")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.ws.Replace(sc)

	snap := s.ws.Snapshot()
	s.log.Info(ctx.Request.Context(), "topology replaced",
		logging.Int("devices", len(summary.DeviceIDs)),
		logging.Int("interfaces", summary.InterfaceRows),
		logging.Int("connections", len(summary.ConnectionIDs)),
	)
	ctx.JSON(http.StatusOK, snap.Summarize())
}

// publishCounts refreshes the topology gauges from a fresh snapshot.
func (s *Server) publishCounts() {
	sum := s.ws.Snapshot().Summarize()
	s.collector.SetTopologyCounts(sum.Devices, sum.Connections, sum.Segments, sum.ViableSegments)
}
