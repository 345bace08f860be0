package viz

import (
	"math"
	"sort"

	"github.com/san-kum/clothsim/internal/cloth"
)

// Camera projects world-space cloth geometry onto the terminal canvas.
// Rotation is applied around the world axes before a simple perspective
// divide against the viewing distance.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

// NewCamera starts tilted so the sheet reads as a surface rather than a
// line (the undeformed cloth lies flat in the X-Z plane).
func NewCamera() *Camera {
	return &Camera{Distance: 8, Near: 0.1, RotX: -0.9, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p cloth.Vec3) cloth.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps a world point to sub-pixel canvas coordinates. Returns
// screen x, y, view depth and whether the point landed on screen.
func (c *Camera) Project(p cloth.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 4.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// RenderCloth draws the constraint wireframe with a painter's sort, then
// overlays pinned vertices and the driven vertex as blobs.
func RenderCloth(canvas *Canvas, pos []cloth.Vec3, cons []cloth.Constraint, invMass []float64, driven int, cam *Camera) {
	if canvas == nil || cam == nil {
		return
	}
	sw, sh := canvas.Width*2, canvas.Height*4

	proj := make([]projectedEdge, 0, len(cons))
	for _, con := range cons {
		x1, y1, d1, v1 := cam.Project(pos[con.A], sw, sh)
		x2, y2, d2, v2 := cam.Project(pos[con.B], sw, sh)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		canvas.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}

	for i, w := range invMass {
		if w != 0 {
			continue
		}
		if x, y, _, ok := cam.Project(pos[i], sw, sh); ok {
			canvas.Mark(x, y, 1)
		}
	}
	if driven >= 0 && driven < len(pos) {
		if x, y, _, ok := cam.Project(pos[driven], sw, sh); ok {
			canvas.Mark(x, y, 2)
		}
	}
}
