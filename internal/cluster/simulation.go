package cluster

import (
	"math"
)

// Config tunes the simulation forces. Zero values are not meaningful; use
// DefaultConfig and override fields as needed.
type Config struct {
	Width  float64
	Height float64

	// Repulsion scales the mutual push between all node pairs.
	Repulsion float64
	// Centering scales the weak pull toward the canvas center.
	Centering float64
	// StatusPull scales the anchor pull in status mode.
	StatusPull float64
	// WeakStatusPull is the residual anchor pull kept in similarity mode.
	WeakStatusPull float64
	// Spring scales link forces; the force also grows with link strength.
	Spring float64
	// RestScale sets spring rest distance, RestScale / strength.
	RestScale float64

	CatalogRadius     float64
	RecommendedRadius float64

	// Damping multiplies velocity each step, under 1.
	Damping float64
	// StopEnergy is the kinetic energy below which the layout counts as
	// settled.
	StopEnergy float64
}

// DefaultConfig returns the tuning the visualization ships with.
func DefaultConfig() Config {
	return Config{
		Width:             1200,
		Height:            800,
		Repulsion:         6000,
		Centering:         0.02,
		StatusPull:        0.18,
		WeakStatusPull:    0.02,
		Spring:            0.08,
		RestScale:         120,
		CatalogRadius:     26,
		RecommendedRadius: 16,
		Damping:           0.85,
		StopEnergy:        0.5,
	}
}

type simNode struct {
	id       string
	status   Status
	pos      Point
	vel      Point
	radius   float64
	pinned   bool
	sourceID string
}

// Simulation is one layout instance. It is not safe for concurrent use;
// the owner serializes Step, Drag, and reads.
type Simulation struct {
	cfg     Config
	mode    Mode
	nodes   []*simNode
	byID    map[string]*simNode
	conns   []Connection
	anchors map[Status]Point
	energy  float64
}

// NewSimulation seeds a layout. Catalog nodes start on a spiral around the
// canvas center; recommended nodes with a known source start next to it.
func NewSimulation(cfg Config, mode Mode, nodes []Node, conns []Connection) *Simulation {
	s := &Simulation{
		cfg:   cfg,
		mode:  mode,
		byID:  make(map[string]*simNode, len(nodes)),
		conns: conns,
		anchors: map[Status]Point{
			StatusReading:     {X: cfg.Width * 0.25, Y: cfg.Height * 0.25},
			StatusToRead:      {X: cfg.Width * 0.75, Y: cfg.Height * 0.25},
			StatusFinished:    {X: cfg.Width * 0.25, Y: cfg.Height * 0.75},
			StatusRecommended: {X: cfg.Width * 0.75, Y: cfg.Height * 0.75},
		},
		energy: math.Inf(1),
	}

	center := Point{X: cfg.Width / 2, Y: cfg.Height / 2}
	const goldenAngle = 2.399963229728653

	for i, n := range nodes {
		radius := cfg.CatalogRadius
		if n.Status == StatusRecommended {
			radius = cfg.RecommendedRadius
		}
		// Sunflower seeding keeps initial positions distinct and
		// deterministic without a randomness source.
		r := 18 * math.Sqrt(float64(i)+1)
		angle := float64(i) * goldenAngle
		sn := &simNode{
			id:     n.ID,
			status: n.Status,
			radius: radius,
			pos: Point{
				X: center.X + r*math.Cos(angle),
				Y: center.Y + r*math.Sin(angle),
			},
			sourceID: n.SourceID,
		}
		s.nodes = append(s.nodes, sn)
		s.byID[n.ID] = sn
	}

	if mode == ModeSimilarity {
		for _, sn := range s.nodes {
			if sn.sourceID == "" {
				continue
			}
			if src, ok := s.byID[sn.sourceID]; ok {
				sn.pos = Point{
					X: src.pos.X + src.radius + sn.radius + 4,
					Y: src.pos.Y + 4,
				}
			}
		}
	}

	return s
}

// Step advances the simulation by dt (in the same time unit the force
// constants were tuned for, one per animation frame) and returns the new
// kinetic energy.
func (s *Simulation) Step(dt float64) float64 {
	forces := make([]Point, len(s.nodes))

	for i, a := range s.nodes {
		// Mutual repulsion and collision avoidance.
		for j := i + 1; j < len(s.nodes); j++ {
			b := s.nodes[j]
			dx := a.pos.X - b.pos.X
			dy := a.pos.Y - b.pos.Y
			distSq := dx*dx + dy*dy
			if distSq < 1e-6 {
				// Coincident nodes get a deterministic nudge apart.
				dx, dy, distSq = 0.1, 0.1, 0.02
			}
			dist := math.Sqrt(distSq)
			ux, uy := dx/dist, dy/dist

			f := s.cfg.Repulsion / distSq
			if overlap := a.radius + b.radius - dist; overlap > 0 {
				f += overlap * 2
			}
			forces[i].X += ux * f
			forces[i].Y += uy * f
			forces[j].X -= ux * f
			forces[j].Y -= uy * f
		}

		// Weak centering.
		forces[i].X += (s.cfg.Width/2 - a.pos.X) * s.cfg.Centering
		forces[i].Y += (s.cfg.Height/2 - a.pos.Y) * s.cfg.Centering

		// Status anchor pull, strong in status mode, residual otherwise.
		pull := s.cfg.StatusPull
		if s.mode == ModeSimilarity {
			pull = s.cfg.WeakStatusPull
		}
		if anchor, ok := s.anchors[a.status]; ok {
			forces[i].X += (anchor.X - a.pos.X) * pull
			forces[i].Y += (anchor.Y - a.pos.Y) * pull
		}
	}

	if s.mode == ModeSimilarity {
		s.applySprings(forces)
	}

	energy := 0.0
	for i, n := range s.nodes {
		if n.pinned {
			n.vel = Point{}
			continue
		}
		n.vel.X = (n.vel.X + forces[i].X*dt) * s.cfg.Damping
		n.vel.Y = (n.vel.Y + forces[i].Y*dt) * s.cfg.Damping
		n.pos.X += n.vel.X * dt
		n.pos.Y += n.vel.Y * dt
		energy += 0.5 * (n.vel.X*n.vel.X + n.vel.Y*n.vel.Y)
	}
	s.energy = energy
	return energy
}

// applySprings adds link forces: rest distance shrinks and force grows as
// strength rises, so strong links sit close together.
func (s *Simulation) applySprings(forces []Point) {
	index := make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		index[n.id] = i
	}

	for _, c := range s.conns {
		i, okA := index[c.A]
		j, okB := index[c.B]
		if !okA || !okB || c.Strength <= 0 {
			continue
		}
		a, b := s.nodes[i], s.nodes[j]

		dx := b.pos.X - a.pos.X
		dy := b.pos.Y - a.pos.Y
		dist := math.Hypot(dx, dy)
		if dist < 1e-6 {
			continue
		}
		rest := s.cfg.RestScale / c.Strength
		f := s.cfg.Spring * c.Strength * (dist - rest)
		ux, uy := dx/dist, dy/dist

		forces[i].X += ux * f
		forces[i].Y += uy * f
		forces[j].X -= ux * f
		forces[j].Y -= uy * f
	}
}

// Energy returns the kinetic energy of the last step.
func (s *Simulation) Energy() float64 { return s.energy }

// Settled reports whether the layout has decayed below the stop threshold.
func (s *Simulation) Settled() bool { return s.energy < s.cfg.StopEnergy }

// Positions returns a snapshot of every node's position.
func (s *Simulation) Positions() map[string]Point {
	out := make(map[string]Point, len(s.nodes))
	for _, n := range s.nodes {
		out[n.id] = n.pos
	}
	return out
}

// Drag pins a node at the given position for the duration of a gesture and
// wakes the simulation. Returns false for an unknown node.
func (s *Simulation) Drag(id string, to Point) bool {
	n, ok := s.byID[id]
	if !ok {
		return false
	}
	n.pinned = true
	n.pos = to
	n.vel = Point{}
	s.energy = math.Inf(1)
	return true
}

// Release returns a dragged node to the simulation.
func (s *Simulation) Release(id string) bool {
	n, ok := s.byID[id]
	if !ok {
		return false
	}
	n.pinned = false
	return true
}

// Anchor returns the fixed anchor point for a status.
func (s *Simulation) Anchor(status Status) (Point, bool) {
	p, ok := s.anchors[status]
	return p, ok
}
