package geometry

// Triangle is a single facet with its stored normal and vertices in winding order
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{Normal: normal, V1: v1, V2: v2, V3: v3}
}

// FaceNormal computes the unit normal (V2-V1)×(V3-V1).
// Zero-area triangles yield the zero vector.
func FaceNormal(v1, v2, v3 Vector3) Vector3 {
	return v2.Sub(v1).Cross(v3.Sub(v1)).Normalize()
}

// CalculateNormal computes the normal from the vertices, ignoring the stored one
func (t Triangle) CalculateNormal() Vector3 {
	return FaceNormal(t.V1, t.V2, t.V3)
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Length() / 2.0
}

// EdgeLengths returns the lengths of V1V2, V2V3 and V3V1
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Centroid returns the mean of the three vertices
func (t Triangle) Centroid() Vector3 {
	return Centroid(t.V1, t.V2, t.V3)
}

// Vertices returns the vertices in winding order
func (t Triangle) Vertices() [3]Vector3 {
	return [3]Vector3{t.V1, t.V2, t.V3}
}

// Centroid returns the mean of three points
func Centroid(a, b, c Vector3) Vector3 {
	return Vector3{
		X: (a.X + b.X + c.X) / 3.0,
		Y: (a.Y + b.Y + c.Y) / 3.0,
		Z: (a.Z + b.Z + c.Z) / 3.0,
	}
}
