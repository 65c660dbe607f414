package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/octree"
	"github.com/san-kum/gravsim/internal/physics"
)

// Camera orbits the center of a domain. World coordinates are scaled so the
// domain's largest half-width maps to one unit before projection.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
	// Distance is the eye distance in normalized units; zero projects
	// orthographically.
	Distance float64

	center mgl64.Vec3
	scale  float64
}

func NewCamera() *Camera {
	return &Camera{Yaw: 0.6, Pitch: 0.35, Zoom: 1, Distance: 4, scale: 1}
}

// Fit centers the camera on d.
func (c *Camera) Fit(d octree.Domain) {
	size := d.Size()
	half := math.Max(size.X(), math.Max(size.Y(), size.Z())) / 2
	c.center = d.Mid()
	if half > 0 {
		c.scale = 1 / half
	}
}

func (c *Camera) Rotate(yaw, pitch float64) {
	c.Yaw += yaw
	c.Pitch = mgl64.Clamp(c.Pitch+pitch, -math.Pi/2, math.Pi/2)
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) view() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(c.Yaw))
}

// Project maps a world point to pixel coordinates on a w x h surface. ok is
// false for points behind the eye or off the surface.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	v := c.view().Mul3x1(p.Sub(c.center).Mul(c.scale))

	persp := 1.0
	if c.Distance > 0 {
		if v.Z() >= c.Distance-0.05 {
			return 0, 0, 0, false
		}
		persp = c.Distance / (c.Distance - v.Z())
	}

	unit := 0.45 * float64(min(w, h)) * c.Zoom
	x = int(math.Round(v.X()*persp*unit)) + w/2
	y = int(math.Round(-v.Y()*persp*unit)) + h/2
	return x, y, v.Z(), x >= 0 && x < w && y >= 0 && y < h
}

type Segment struct {
	A, B mgl64.Vec3
}

// BoxEdges returns the 12 edges of a domain. Corners follow octant order,
// so two corners share an edge when their indices differ in one bit.
func BoxEdges(d octree.Domain) []Segment {
	corners := d.Corners()
	edges := make([]Segment, 0, 12)
	for i := 0; i < octree.NumOctants; i++ {
		for bit := 1; bit < octree.NumOctants; bit <<= 1 {
			if i&bit == 0 {
				edges = append(edges, Segment{corners[i], corners[i|bit]})
			}
		}
	}
	return edges
}

// Scene is what gets drawn: particle positions and node domains.
type Scene struct {
	Points []mgl64.Vec3
	Boxes  []octree.Domain
}

// NewScene collects live particle positions and the domains of non-empty
// nodes up to maxDepth. A negative maxDepth omits boxes.
func NewScene(set *physics.Set, tree *octree.Octree, maxDepth int) Scene {
	var sc Scene
	for _, id := range set.IDs() {
		sc.Points = append(sc.Points, set.Position(id))
	}
	if maxDepth < 0 || tree == nil {
		return sc
	}
	tree.Walk(func(n *octree.Node) bool {
		if n.Depth() <= maxDepth && (n.Len() > 0 || n.Depth() == 0) {
			sc.Boxes = append(sc.Boxes, n.Domain())
		}
		return true
	})
	return sc
}

type projectedSegment struct {
	x0, y0, x1, y1 int
	depth          float64
}

// Draw renders the scene onto the canvas, far boxes first.
func (sc Scene) Draw(c *Canvas, cam *Camera) {
	w, h := c.PixelWidth(), c.PixelHeight()

	var segs []projectedSegment
	for _, box := range sc.Boxes {
		for _, e := range BoxEdges(box) {
			x0, y0, d0, ok0 := cam.Project(e.A, w, h)
			x1, y1, d1, ok1 := cam.Project(e.B, w, h)
			if ok0 || ok1 {
				segs = append(segs, projectedSegment{x0, y0, x1, y1, (d0 + d1) / 2})
			}
		}
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].depth < segs[j].depth })
	for _, s := range segs {
		c.DrawLine(s.x0, s.y0, s.x1, s.y1)
	}

	for _, p := range sc.Points {
		if x, y, _, ok := cam.Project(p, w, h); ok {
			c.Set(x, y)
		}
	}
}
