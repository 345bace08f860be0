package cloth

// Constraint is a distance constraint between two vertices. Rest is the
// distance between their initial positions and never changes afterwards.
type Constraint struct {
	A, B int
	Rest float64
}

// buildConstraints emits one constraint per grid edge: row-major over
// vertices, horizontal edge before vertical edge at each vertex. The
// order is deterministic; Gauss-Seidel projection visits constraints in
// this order every iteration, so reproducible traces depend on it.
func buildConstraints(c Config, pos []Vec3) []Constraint {
	count := (c.ResX-1)*c.ResY + c.ResX*(c.ResY-1)
	cons := make([]Constraint, 0, count)

	for row := 0; row < c.ResY; row++ {
		for col := 0; col < c.ResX; col++ {
			i := c.vertexIndex(row, col)
			if col < c.ResX-1 {
				j := c.vertexIndex(row, col+1)
				cons = append(cons, Constraint{A: i, B: j, Rest: Dist(pos[i], pos[j])})
			}
			if row < c.ResY-1 {
				j := c.vertexIndex(row+1, col)
				cons = append(cons, Constraint{A: i, B: j, Rest: Dist(pos[i], pos[j])})
			}
		}
	}
	return cons
}
