package terminal

import (
	"log/slog"
	"sync"
)

// Geometry is the visible size of the terminal in character cells
type Geometry struct {
	Rows int
	Cols int
}

// DefaultGeometry is used whenever the device cannot report its size
var DefaultGeometry = Geometry{Rows: 24, Cols: 80}

// Valid reports whether both dimensions are positive
func (g Geometry) Valid() bool {
	return g.Rows > 0 && g.Cols > 0
}

// GeometrySource supplies the geometry used for clamping and full redraws
type GeometrySource interface {
	Geometry() Geometry
}

type fixedGeometry Geometry

func (f fixedGeometry) Geometry() Geometry { return Geometry(f) }

// Fixed returns a source that always reports g
func Fixed(g Geometry) GeometrySource {
	return fixedGeometry(g)
}

// GeometryProbe caches the result of a size query until invalidated.
// Failed or zero-sized answers resolve to the fallback.
type GeometryProbe struct {
	query    func() (Geometry, error)
	fallback Geometry

	mu     sync.Mutex
	cached Geometry
	valid  bool
}

// NewGeometryProbe returns a probe over query. An invalid fallback is
// replaced with DefaultGeometry.
func NewGeometryProbe(query func() (Geometry, error), fallback Geometry) *GeometryProbe {
	if !fallback.Valid() {
		fallback = DefaultGeometry
	}
	return &GeometryProbe{query: query, fallback: fallback}
}

// Geometry returns the cached size, querying the device on first use or
// after Invalidate
func (p *GeometryProbe) Geometry() Geometry {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.valid {
		return p.cached
	}
	g, err := p.query()
	if err != nil || !g.Valid() {
		slog.Debug("terminal geometry fallback", "error", err, "fallback", p.fallback)
		g = p.fallback
	}
	p.cached = g
	p.valid = true
	return g
}

// Invalidate drops the cached size. Safe to call from a signal goroutine.
func (p *GeometryProbe) Invalidate() {
	p.mu.Lock()
	p.valid = false
	p.mu.Unlock()
}
