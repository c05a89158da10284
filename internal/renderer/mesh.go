package renderer

import (
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// floats per vertex: position(3) normal(3) uv(2)
const vertexStride = 8

// Mesh is interleaved geometry for the demo scenes. Asset loading lives
// elsewhere; these are procedural shapes only.
type Mesh struct {
	Vertices []float32
	Indices  []uint32

	vao, vbo, ebo uint32
}

// NewCubeMesh returns a unit cube centred on the origin with per-face normals
func NewCubeMesh() *Mesh {
	type face struct {
		normal [3]float32
		u, v   [3]float32
	}
	faces := []face{
		{normal: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{normal: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	m := &Mesh{}
	for _, f := range faces {
		base := uint32(len(m.Vertices) / vertexStride)
		for _, c := range corners {
			for i := 0; i < 3; i++ {
				m.Vertices = append(m.Vertices, 0.5*(f.normal[i]+c[0]*f.u[i]+c[1]*f.v[i]))
			}
			m.Vertices = append(m.Vertices, f.normal[0], f.normal[1], f.normal[2])
			m.Vertices = append(m.Vertices, (c[0]+1)/2, (c[1]+1)/2)
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// NewSphereMesh returns a UV sphere of the given radius
func NewSphereMesh(radius float32, stacks, slices int) *Mesh {
	m := &Mesh{}
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			n := [3]float32{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			m.Vertices = append(m.Vertices,
				n[0]*radius, n[1]*radius, n[2]*radius,
				n[0], n[1], n[2],
				float32(j)/float32(slices), float32(i)/float32(stacks))
		}
	}
	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / vertexStride
}

// Upload creates the GL buffers. Attribute locations match the Phong vertex
// shader: 0 position, 1 normal, 2 uv.
func (m *Mesh) Upload() {
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
}

func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(m.Indices)), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (m *Mesh) Cleanup() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}
