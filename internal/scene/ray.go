package scene

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half line Origin + t*Dir, t >= 0. World rays have a unit Dir.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// Transform maps the ray through m, treating Dir as a direction. Dir is not
// renormalized, so ray parameters keep their meaning across the mapping.
func (r Ray) Transform(m mgl64.Mat4) Ray {
	return Ray{
		Origin: mgl64.TransformCoordinate(r.Origin, m),
		Dir:    mgl64.TransformNormal(r.Dir, m),
	}
}
