package graph

import "flowcanvas/pkg/geom"

// PortQuery constrains a nearest-port search.
type PortQuery struct {
	// ExcludeNodeID is skipped entirely, typically the connection's source node.
	ExcludeNodeID string
	// Direction is the direction a candidate port must have.
	Direction PortDirection
	// Radius is the capture radius in canvas units.
	Radius float64
}

// PortCandidate is a port found by a lookup.
type PortCandidate struct {
	NodeID   string
	PortID   string
	Side     Side
	Position geom.Point
	Distance float64
}

// PortLookup finds the nearest compatible port to a canvas point. Hosts may
// supply their own; NearestPort is the default over a node list.
type PortLookup func(p geom.Point, q PortQuery) (PortCandidate, bool)

// NearestPort returns the closest port within q.Radius of p that satisfies q.
func NearestPort(nodes []Node, p geom.Point, q PortQuery) (PortCandidate, bool) {
	var best PortCandidate
	found := false
	for _, n := range nodes {
		if n.ID() == q.ExcludeNodeID {
			continue
		}
		for _, port := range n.Ports() {
			if port.Direction != q.Direction {
				continue
			}
			pos := PortPosition(n, port)
			d := pos.Dist(p)
			if d > q.Radius {
				continue
			}
			if !found || d < best.Distance {
				best = PortCandidate{NodeID: n.ID(), PortID: port.ID, Side: port.Side, Position: pos, Distance: d}
				found = true
			}
		}
	}
	return best, found
}

// HostPortLookup adapts NearestPort to read the host's nodes on every query.
func HostPortLookup(h Host) PortLookup {
	return func(p geom.Point, q PortQuery) (PortCandidate, bool) {
		if h == nil {
			return PortCandidate{}, false
		}
		return NearestPort(h.Nodes(), p, q)
	}
}
