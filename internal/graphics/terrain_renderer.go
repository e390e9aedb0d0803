package graphics

import (
	"log"

	"endless-terrain/internal/camera"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const terrainVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 Normal;
out float Height;

void main() {
	Normal = aNormal;
	Height = aPos.y;
	gl_Position = projection * view * model * vec4(aPos, 1.0);
}
`

const terrainFragmentShader = `#version 410 core
in vec3 Normal;
in float Height;

uniform float minHeight;
uniform float maxHeight;
uniform vec3 lightDir;

out vec4 FragColor;

const vec3 water = vec3(0.15, 0.35, 0.70);
const vec3 sand = vec3(0.82, 0.76, 0.52);
const vec3 grass = vec3(0.30, 0.55, 0.22);
const vec3 rock = vec3(0.45, 0.42, 0.40);
const vec3 snow = vec3(0.95, 0.95, 0.97);

void main() {
	float span = max(maxHeight - minHeight, 0.0001);
	float h = clamp((Height - minHeight) / span, 0.0, 1.0);
	vec3 base = water;
	base = mix(base, sand, smoothstep(0.02, 0.06, h));
	base = mix(base, grass, smoothstep(0.08, 0.15, h));
	base = mix(base, rock, smoothstep(0.45, 0.60, h));
	base = mix(base, snow, smoothstep(0.75, 0.85, h));
	float diffuse = max(dot(normalize(Normal), normalize(-lightDir)), 0.0);
	FragColor = vec4(base * (0.35 + 0.65 * diffuse), 1.0);
}
`

type chunkMesh struct {
	vao, vbo uint32
	count    int32
	visible  bool
}

// TerrainRenderer is the GL-backed terrain.Sink. It must be created and
// used on the goroutine that owns the GL context, which is also the
// goroutine driving the registry.
type TerrainRenderer struct {
	shader    *Shader
	worldSize float32
	minHeight float32
	maxHeight float32
	LightDir  mgl32.Vec3

	chunks    map[terrain.Coord]*chunkMesh
	colliders map[terrain.Coord]*meshing.Mesh
}

// NewTerrainRenderer compiles the terrain shader. minHeight and maxHeight
// are the material band limits used for colouring.
func NewTerrainRenderer(worldSize, minHeight, maxHeight float32) (*TerrainRenderer, error) {
	shader, err := NewShader(terrainVertexShader, terrainFragmentShader)
	if err != nil {
		return nil, err
	}
	return &TerrainRenderer{
		shader:    shader,
		worldSize: worldSize,
		minHeight: minHeight,
		maxHeight: maxHeight,
		LightDir:  mgl32.Vec3{-0.4, -1, -0.3},
		chunks:    make(map[terrain.Coord]*chunkMesh),
		colliders: make(map[terrain.Coord]*meshing.Mesh),
	}, nil
}

func (r *TerrainRenderer) entry(c terrain.Coord) *chunkMesh {
	m, ok := r.chunks[c]
	if !ok {
		m = &chunkMesh{}
		r.chunks[c] = m
	}
	return m
}

func (r *TerrainRenderer) SetVisible(c terrain.Coord, visible bool) {
	r.entry(c).visible = visible
}

// ShowGeometry uploads g, which must be a *meshing.Mesh, replacing whatever
// the chunk showed before.
func (r *TerrainRenderer) ShowGeometry(c terrain.Coord, lod int, g terrain.Geometry) {
	mesh, ok := g.(*meshing.Mesh)
	if !ok {
		log.Printf("terrain renderer: chunk %v: unexpected geometry %T", c, g)
		return
	}
	m := r.entry(c)
	if m.vao == 0 {
		gl.GenVertexArrays(1, &m.vao)
		gl.GenBuffers(1, &m.vbo)
	}
	m.count = int32(mesh.VertexCount())

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(mesh.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}

	stride := int32(meshing.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// SetCollider records the collision mesh. There is no physics engine here;
// colliders are only counted and available for queries.
func (r *TerrainRenderer) SetCollider(c terrain.Coord, g terrain.Geometry) {
	if mesh, ok := g.(*meshing.Mesh); ok {
		r.colliders[c] = mesh
	}
}

func (r *TerrainRenderer) ColliderCount() int { return len(r.colliders) }

// Draw renders every visible chunk that has geometry and lies inside the
// view frustum. It returns the number of chunks drawn.
func (r *TerrainRenderer) Draw(view, projection mgl32.Mat4) int {
	frustum := camera.NewFrustum(projection.Mul4(view))
	half := r.worldSize / 2

	r.shader.Use()
	r.shader.SetMatrix4("view", view)
	r.shader.SetMatrix4("projection", projection)
	r.shader.SetFloat("minHeight", r.minHeight)
	r.shader.SetFloat("maxHeight", r.maxHeight)
	r.shader.SetVector3("lightDir", r.LightDir)

	drawn := 0
	for coord, m := range r.chunks {
		if !m.visible || m.count == 0 {
			continue
		}
		centre := coord.Centre(r.worldSize)
		lo := mgl32.Vec3{centre.X() - half, r.minHeight, centre.Y() - half}
		hi := mgl32.Vec3{centre.X() + half, r.maxHeight, centre.Y() + half}
		if !frustum.IntersectsAABB(lo, hi) {
			continue
		}
		r.shader.SetMatrix4("model", mgl32.Translate3D(centre.X(), 0, centre.Y()))
		gl.BindVertexArray(m.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, m.count)
		drawn++
	}
	gl.BindVertexArray(0)
	return drawn
}

// Delete frees every GL object the renderer owns.
func (r *TerrainRenderer) Delete() {
	for c, m := range r.chunks {
		if m.vbo != 0 {
			gl.DeleteBuffers(1, &m.vbo)
		}
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
		}
		delete(r.chunks, c)
	}
	r.shader.Delete()
}
