// Package export writes cloth snapshots to external formats: Wavefront
// OBJ for mesh tooling and SVG for quick visual inspection.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/clothsim/internal/cloth"
)

// ClothToOBJ serializes the current cloth state as a Wavefront OBJ
// string: one v line per vertex, one f line per triangle. OBJ indices
// are 1-based.
func ClothToOBJ(c *cloth.Cloth) string {
	var sb strings.Builder

	pos := c.Positions()
	indices := c.Indices()

	sb.WriteString(fmt.Sprintf("# cloth %dx%d, t=%.3f\n", c.Config().ResX, c.Config().ResY, c.Time()))
	sb.WriteString("o cloth\n")

	for _, p := range pos {
		sb.WriteString(fmt.Sprintf("v %.6f %.6f %.6f\n", p.X, p.Y, p.Z))
	}
	for i := 0; i+2 < len(indices); i += 3 {
		sb.WriteString(fmt.Sprintf("f %d %d %d\n", indices[i]+1, indices[i+1]+1, indices[i+2]+1))
	}

	return sb.String()
}

// SaveOBJ writes the cloth snapshot to path.
func SaveOBJ(path string, c *cloth.Cloth) error {
	return os.WriteFile(path, []byte(ClothToOBJ(c)), 0644)
}
