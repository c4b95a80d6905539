package effects

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

// Particle positions are relative to the emitter's node.
type Particle struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Color    dynamo.Color
	Size     float64
	Age      float64
	Lifetime float64
}

// Emitter releases a definition's particles once and finishes when the last
// one dies. The same seed always produces the same particles.
type Emitter struct {
	def     Definition
	rng     *rand.Rand
	age     float64
	emitted int
	live    []Particle
}

func NewEmitter(d Definition, seed int64) *Emitter {
	return &Emitter{
		def: d,
		rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

func (e *Emitter) Name() string           { return e.def.Name }
func (e *Emitter) Definition() Definition { return e.def }
func (e *Emitter) Age() float64           { return e.age }
func (e *Emitter) Emitted() int           { return e.emitted }

// Particles returns the live particles. The slice is reused by Advance.
func (e *Emitter) Particles() []Particle { return e.live }

// Done reports whether every particle has been emitted and has expired.
func (e *Emitter) Done() bool {
	return e.emitted >= e.def.BirthCount && len(e.live) == 0
}

func (e *Emitter) Advance(dt float64) {
	e.age += dt

	live := e.live[:0]
	for _, p := range e.live {
		p.Age += dt
		if p.Age >= p.Lifetime {
			continue
		}
		p.Velocity = p.Velocity.Add(e.def.Gravity.Mul(dt))
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Color = e.def.StartColor.Lerp(e.def.EndColor, p.Age/p.Lifetime)
		live = append(live, p)
	}
	e.live = live

	want := e.def.BirthCount
	if e.def.EmissionDuration > 0 && e.age < e.def.EmissionDuration {
		want = int(float64(e.def.BirthCount) * e.age / e.def.EmissionDuration)
	}
	for ; e.emitted < want; e.emitted++ {
		e.live = append(e.live, e.launch())
	}
}

func (e *Emitter) launch() Particle {
	return Particle{
		Velocity: e.direction().Mul(e.sample(e.def.Speed)),
		Color:    e.def.StartColor,
		Size:     e.def.Size,
		Lifetime: e.sample(e.def.Lifetime),
	}
}

func (e *Emitter) sample(r Range) float64 {
	return r.Min + e.rng.Float64()*(r.Max-r.Min)
}

// direction picks a unit vector uniformly inside the launch cone.
func (e *Emitter) direction() mgl64.Vec3 {
	axis := mgl64.Vec3{0, 1, 0}
	if e.def.Direction.Len() > 0 {
		axis = e.def.Direction.Normalize()
	}
	spread := math.Min(math.Max(e.def.Spread, 0), 180) * math.Pi / 180

	cosT := 1 - e.rng.Float64()*(1-math.Cos(spread))
	sinT := math.Sqrt(math.Max(0, 1-cosT*cosT))
	phi := e.rng.Float64() * 2 * math.Pi

	// orthonormal basis around axis
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(axis.X()) > 0.9 {
		ref = mgl64.Vec3{0, 0, 1}
	}
	u := axis.Cross(ref).Normalize()
	v := axis.Cross(u)
	return axis.Mul(cosT).Add(u.Mul(sinT * math.Cos(phi))).Add(v.Mul(sinT * math.Sin(phi)))
}
