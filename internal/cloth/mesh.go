package cloth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig covers degenerate mesh dimensions and timestep.
	ErrInvalidConfig = errors.New("invalid cloth configuration")
	// ErrDrivenVertex covers a driven index that is out of range or pinned.
	ErrDrivenVertex = errors.New("invalid driven vertex")
)

// Sentinel values for Config.Driven.
const (
	// DrivenCenter resolves the driven vertex to the grid center.
	DrivenCenter = -1
	// DrivenNone disables the oscillator entirely.
	DrivenNone = -2
)

// Config holds the immutable setup inputs. Everything tunable at runtime
// lives in Params instead.
type Config struct {
	Width  float64 // extent along X
	Height float64 // extent along Z
	ResX   int     // vertices per row, >= 2
	ResY   int     // vertices per column, >= 2
	Dt     float64 // fixed timestep per tick
	Driven int     // vertex index, or DrivenCenter / DrivenNone
}

func DefaultClothConfig() Config {
	return Config{
		Width:  3.0,
		Height: 3.0,
		ResX:   24,
		ResY:   24,
		Dt:     1.0 / 60.0,
		Driven: DrivenCenter,
	}
}

func (c Config) Validate() error {
	if c.ResX < 2 || c.ResY < 2 {
		return fmt.Errorf("%w: resolution must be at least 2x2, got %dx%d", ErrInvalidConfig, c.ResX, c.ResY)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %gx%g", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Driven < DrivenNone {
		return fmt.Errorf("%w: index %d", ErrDrivenVertex, c.Driven)
	}
	if c.Driven >= 0 {
		if c.Driven >= c.ResX*c.ResY {
			return fmt.Errorf("%w: index %d out of range for %d vertices", ErrDrivenVertex, c.Driven, c.ResX*c.ResY)
		}
		if isCorner(c.Driven, c.ResX, c.ResY) {
			return fmt.Errorf("%w: index %d is a pinned corner", ErrDrivenVertex, c.Driven)
		}
	}
	return nil
}

// vertexIndex maps grid coordinates to the linear index row*ResX+col.
func (c Config) vertexIndex(row, col int) int {
	return row*c.ResX + col
}

func isCorner(idx, resX, resY int) bool {
	row, col := idx/resX, idx%resX
	return (row == 0 || row == resY-1) && (col == 0 || col == resX-1)
}

// resolveDriven turns the Driven sentinel into a concrete index, or -1
// when the oscillator is disabled. Validate has already rejected pinned
// and out-of-range indices.
func (c Config) resolveDriven() int {
	switch {
	case c.Driven == DrivenNone:
		return -1
	case c.Driven == DrivenCenter:
		return c.vertexIndex(c.ResY/2, c.ResX/2)
	default:
		return c.Driven
	}
}

// buildGrid lays the vertices out on the X-Z plane, centered at the
// origin with Y=0. Spacing is Width/(ResX-1) by Height/(ResY-1).
func buildGrid(c Config) []Vec3 {
	spacingX := c.Width / float64(c.ResX-1)
	spacingY := c.Height / float64(c.ResY-1)

	pos := make([]Vec3, c.ResX*c.ResY)
	for row := 0; row < c.ResY; row++ {
		for col := 0; col < c.ResX; col++ {
			pos[c.vertexIndex(row, col)] = Vec3{
				X: -c.Width/2 + float64(col)*spacingX,
				Y: 0,
				Z: -c.Height/2 + float64(row)*spacingY,
			}
		}
	}
	return pos
}

// buildIndices emits two triangles per grid cell with consistent winding
// (counter-clockwise seen from +Y), suitable for back-face culling.
func buildIndices(c Config) []uint32 {
	indices := make([]uint32, 0, 6*(c.ResX-1)*(c.ResY-1))
	for row := 0; row < c.ResY-1; row++ {
		for col := 0; col < c.ResX-1; col++ {
			i := uint32(c.vertexIndex(row, col))
			right := i + 1
			below := i + uint32(c.ResX)
			diag := below + 1

			indices = append(indices, i, below, right)
			indices = append(indices, right, below, diag)
		}
	}
	return indices
}

// buildInvMass pins the four grid corners (inverse mass 0); every other
// vertex carries unit mass. Computed once, indexed directly afterwards.
func buildInvMass(c Config) []float64 {
	invMass := make([]float64, c.ResX*c.ResY)
	for i := range invMass {
		invMass[i] = 1
	}
	for _, idx := range []int{
		c.vertexIndex(0, 0),
		c.vertexIndex(0, c.ResX-1),
		c.vertexIndex(c.ResY-1, 0),
		c.vertexIndex(c.ResY-1, c.ResX-1),
	} {
		invMass[idx] = 0
	}
	return invMass
}
