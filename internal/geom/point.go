// Package geom holds the integer lattice points the automaton is keyed on.
package geom

import "fmt"

// Point2D is a point on the plane
type Point2D struct {
	X, Y int
}

// Point3D is a point in three dimensions
type Point3D struct {
	X, Y, Z int
}

// Point4D is a point in four dimensions
type Point4D struct {
	X, Y, Z, W int
}

// Returns the result of moving the point by the supplied deltas
func (p Point2D) Add(o Point2D) Point2D {
	return Point2D{p.X + o.X, p.Y + o.Y}
}

// Returns all 8 points surrounding this one
func (p Point2D) Neighbors() []Point2D {
	neighbors := make([]Point2D, 0, 8)

	for dX := -1; dX <= 1; dX++ {
		for dY := -1; dY <= 1; dY++ {
			if dX == 0 && dY == 0 {
				continue
			}

			neighbors = append(neighbors, Point2D{p.X + dX, p.Y + dY})
		}
	}

	return neighbors
}

// Returns the coordinates in X, Y order
func (p Point2D) Coords() []int {
	return []int{p.X, p.Y}
}

func (p Point2D) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Returns the result of moving the point by the supplied deltas
func (p Point3D) Add(o Point3D) Point3D {
	return Point3D{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Returns all 26 points surrounding this one
func (p Point3D) Neighbors() []Point3D {
	neighbors := make([]Point3D, 0, 26)

	for dX := -1; dX <= 1; dX++ {
		for dY := -1; dY <= 1; dY++ {
			for dZ := -1; dZ <= 1; dZ++ {
				if dX == 0 && dY == 0 && dZ == 0 {
					continue
				}

				neighbors = append(neighbors, Point3D{p.X + dX, p.Y + dY, p.Z + dZ})
			}
		}
	}

	return neighbors
}

// Returns the coordinates in X, Y, Z order
func (p Point3D) Coords() []int {
	return []int{p.X, p.Y, p.Z}
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Returns the result of moving the point by the supplied deltas
func (p Point4D) Add(o Point4D) Point4D {
	return Point4D{p.X + o.X, p.Y + o.Y, p.Z + o.Z, p.W + o.W}
}

// Returns all 80 points surrounding this one
func (p Point4D) Neighbors() []Point4D {
	neighbors := make([]Point4D, 0, 80)

	for dX := -1; dX <= 1; dX++ {
		for dY := -1; dY <= 1; dY++ {
			for dZ := -1; dZ <= 1; dZ++ {
				for dW := -1; dW <= 1; dW++ {
					if dX == 0 && dY == 0 && dZ == 0 && dW == 0 {
						continue
					}

					neighbors = append(neighbors, Point4D{p.X + dX, p.Y + dY, p.Z + dZ, p.W + dW})
				}
			}
		}
	}

	return neighbors
}

// Returns the coordinates in X, Y, Z, W order
func (p Point4D) Coords() []int {
	return []int{p.X, p.Y, p.Z, p.W}
}

func (p Point4D) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", p.X, p.Y, p.Z, p.W)
}
