package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera follows the viewer from above and behind, looking at the ground
// point the viewer stands on.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Height   float32
	Distance float32

	eye, target mgl32.Vec3
}

func New(width, height int) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    3000.0,
		Height:      120,
		Distance:    160,
	}
}

// SetViewport updates the aspect ratio after a resize.
func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

// Follow places the camera behind the ground point (x, y). Ground Y maps to
// world z, so "behind" is toward +z.
func (c *Camera) Follow(viewer mgl32.Vec2, groundHeight float32) {
	c.target = mgl32.Vec3{viewer.X(), groundHeight, viewer.Y()}
	c.eye = c.target.Add(mgl32.Vec3{0, c.Height, c.Distance})
}

func (c *Camera) Eye() mgl32.Vec3 { return c.eye }

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.eye, c.target, mgl32.Vec3{0, 1, 0})
}
