// Command topoctl loads a topology scenario file and answers one query
// per invocation, printing JSON to stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/netfabrik/topology-engine/core"
)

// Options mirror the command-line flags.
type Options struct {
	TopologyPath string

	Summary    bool
	Segments   bool
	Flows      bool
	Reachable  string // device id
	Path       string // "from,to"
	Ping       string // "device:port,device:port"
	ValidateIP string // "ip@device:port"
	DHCPNext   string // "device:port"
}

func main() {
	opts := Options{}
	flag.StringVar(&opts.TopologyPath, "topology", "", "topology scenario file (JSON or YAML)")
	flag.BoolVar(&opts.Summary, "summary", false, "print topology counts")
	flag.BoolVar(&opts.Segments, "segments", false, "print network segments")
	flag.BoolVar(&opts.Flows, "flows", false, "print the active-flow classification")
	flag.StringVar(&opts.Reachable, "reachable", "", "print devices reachable from the given device id")
	flag.StringVar(&opts.Path, "path", "", "print the shortest path between two device ids, comma separated")
	flag.StringVar(&opts.Ping, "ping", "", "simulate a ping between two ports, e.g. pc1:1,pc2:1")
	flag.StringVar(&opts.ValidateIP, "validate-ip", "", "validate an address for a port, e.g. 10.0.0.5/24@pc1:1")
	flag.StringVar(&opts.DHCPNext, "dhcp-next", "", "print the next free DHCP lease from a server port, e.g. r1:1")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "topoctl:", err)
		os.Exit(1)
	}
}

func run(opts Options, out io.Writer) error {
	if opts.TopologyPath == "" {
		return fmt.Errorf("-topology is required")
	}
	f, err := os.Open(opts.TopologyPath)
	if err != nil {
		return err
	}
	defer f.Close()

	sc, _, err := core.LoadScenario(f, core.DetectScenarioFormat(opts.TopologyPath))
	if err != nil {
		return err
	}
	snap := sc.Snapshot()

	result, err := query(snap, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func query(snap *core.Snapshot, opts Options) (any, error) {
	switch {
	case opts.Summary:
		return snap.Summarize(), nil

	case opts.Segments:
		return map[string]any{"segments": snap.Segments()}, nil

	case opts.Flows:
		return snap.ClassifyFlows(), nil

	case opts.Reachable != "":
		reachable := snap.ReachableFrom(opts.Reachable)
		if reachable == nil {
			return nil, fmt.Errorf("unknown device %q", opts.Reachable)
		}
		return map[string]any{"device": opts.Reachable, "reachable": reachable}, nil

	case opts.Path != "":
		from, to, ok := strings.Cut(opts.Path, ",")
		if !ok {
			return nil, fmt.Errorf("-path wants from,to, got %q", opts.Path)
		}
		path := snap.ShortestPath(from, to)
		if path == nil {
			return nil, fmt.Errorf("no path from %q to %q", from, to)
		}
		return map[string]any{"path": path, "hops": len(path) - 1}, nil

	case opts.Ping != "":
		rawSrc, rawDst, ok := strings.Cut(opts.Ping, ",")
		if !ok {
			return nil, fmt.Errorf("-ping wants src,dst ports, got %q", opts.Ping)
		}
		src, err := parsePortRef(rawSrc)
		if err != nil {
			return nil, err
		}
		dst, err := parsePortRef(rawDst)
		if err != nil {
			return nil, err
		}
		return core.NewPingSimulator().Simulate(snap, src, dst), nil

	case opts.ValidateIP != "":
		ip, rawRef, ok := strings.Cut(opts.ValidateIP, "@")
		if !ok {
			return nil, fmt.Errorf("-validate-ip wants ip@device:port, got %q", opts.ValidateIP)
		}
		ref, err := parsePortRef(rawRef)
		if err != nil {
			return nil, err
		}
		res := snap.ValidatePortIP(ip, ref.DeviceID, ref.Port)
		out := map[string]any{"valid": res.Valid}
		if res.Warning != "" {
			out["warning"] = res.Warning
		}
		if res.GatewaySubnet != "" {
			out["gateway_subnet"] = res.GatewaySubnet
		}
		if res.Err != nil {
			out["error"] = res.Err.Error()
		}
		return out, nil

	case opts.DHCPNext != "":
		ref, err := parsePortRef(opts.DHCPNext)
		if err != nil {
			return nil, err
		}
		ip, available := snap.NextDHCPIP(ref.DeviceID, ref.Port)
		return map[string]any{"available": available, "ip": ip}, nil
	}

	return nil, fmt.Errorf("no query flag given; try -summary, -segments, -flows, -reachable, -path, -ping, -validate-ip or -dhcp-next")
}

func parsePortRef(raw string) (core.PortRef, error) {
	device, portStr, ok := strings.Cut(raw, ":")
	if !ok || device == "" {
		return core.PortRef{}, fmt.Errorf("want device:port, got %q", raw)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return core.PortRef{}, fmt.Errorf("bad port in %q: %w", raw, err)
	}
	return core.PortRef{DeviceID: device, Port: port}, nil
}
