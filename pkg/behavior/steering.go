// Package behavior holds the pure steering law of a swarm agent.
// Every function here is free of shared state so it can run on any worker.
//
// An agent blends competing directives into one target orientation:
//   - recall: face the group's mean position, harder the further it strays
//   - avoidance: turn away from a neighbour inside the avoidance radius
//   - jitter: random Euler offsets scaled by RandomFactor
//
// then rotates toward that target no faster than its turn rate and moves forward.
package behavior

import (
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// Rand is the random source the law draws from. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// Settings controls the constants of the steering law.
type Settings struct {
	AvoidanceDistance float64 // radius of the proximity sphere
	MinRecallDistance float64 // below: ignore the group
	MaxRecallDistance float64 // above: fully face the group
	TargetSpeed       float64 // units per second
	RotationSpeed     float64 // degrees per second
	RandomFactor      float64 // 0 disables every random term
}

// RecallFactor maps the distance to the group center onto [0, 1].
// Equal bounds turn the ramp into a step at MinRecallDistance.
func RecallFactor(dist, minRecall, maxRecall float64) float64 {
	span := maxRecall - minRecall
	if span <= 0 {
		if dist > minRecall {
			return 1
		}
		return 0
	}
	return geometry.Clamp01((dist - minRecall) / span)
}

// AvoidanceFactor is the weight of the avoidance rotation for a neighbour at dist.
func AvoidanceFactor(dist, avoidanceDistance float64) float64 {
	if avoidanceDistance <= 0 {
		return 1
	}
	return geometry.Clamp01(dist / avoidanceDistance)
}

// TurnFraction is the slerp fraction that caps a turn of angleDeg to maxStepDeg.
// ok is false when there is nothing to turn.
func TurnFraction(angleDeg, maxStepDeg float64) (fraction float64, ok bool) {
	if angleDeg <= 0 {
		return 0, false
	}
	return geometry.Clamp01(maxStepDeg / angleDeg), true
}

// Recall rotates target toward the rotation looking from pos to center.
// It returns target unchanged when pos sits on center.
func Recall(target geometry.Quaternion, pos, center geometry.Vector3D, s Settings) (geometry.Quaternion, float64) {
	look, ok := geometry.LookRotation(center.Sub(pos))
	if !ok {
		return target, 0
	}
	t := RecallFactor(pos.DistanceTo(center), s.MinRecallDistance, s.MaxRecallDistance)
	return geometry.Slerp(target, look, t), t
}

// Avoid rotates target toward the inverse of the rotation looking at the neighbour.
// It returns target unchanged when the neighbour sits on pos.
func Avoid(target geometry.Quaternion, pos, neighbour geometry.Vector3D, s Settings) (geometry.Quaternion, float64) {
	look, ok := geometry.LookRotation(neighbour.Sub(pos))
	if !ok {
		return target, 0
	}
	t := AvoidanceFactor(pos.DistanceTo(neighbour), s.AvoidanceDistance)
	return geometry.Slerp(target, look.Inverse(), t), t
}

// Jitter returns a per-axis Euler offset drawn from [-1, 1] * 180 * randomFactor.
func Jitter(rng Rand, randomFactor float64) geometry.Vector3D {
	if randomFactor == 0 {
		return geometry.Zero
	}
	amp := 180 * randomFactor
	return geometry.Vector3D{
		X: symmetric(rng) * amp,
		Y: symmetric(rng) * amp,
		Z: symmetric(rng) * amp,
	}
}

// ApplyJitter adds offset to the Euler angles of target.
func ApplyJitter(target geometry.Quaternion, offset geometry.Vector3D) geometry.Quaternion {
	if offset == geometry.Zero {
		return target
	}
	return geometry.FromEuler(target.Euler().Add(offset))
}

// SpeedMultiplier is 1 + U[-0.5, 0.5] * randomFactor.
func SpeedMultiplier(rng Rand, randomFactor float64) float64 {
	if randomFactor == 0 {
		return 1
	}
	return 1 + (rng.Float64()-0.5)*randomFactor
}

// Turn rotates current toward target by at most RotationSpeed*dt degrees.
// It returns the new rotation and the angle actually turned.
func Turn(current, target geometry.Quaternion, dt float64, s Settings) (geometry.Quaternion, float64) {
	angle := geometry.Angle(current, target)
	fraction, ok := TurnFraction(angle, s.RotationSpeed*dt)
	if !ok {
		return current, 0
	}
	return geometry.Slerp(current, target, fraction), angle * fraction
}

// Advance moves pos along the facing of rot by TargetSpeed*dt*speedMultiplier.
func Advance(pos geometry.Vector3D, rot geometry.Quaternion, dt, speedMultiplier float64, s Settings) geometry.Vector3D {
	return pos.Add(rot.Forward().Mul(s.TargetSpeed * dt * speedMultiplier))
}

func symmetric(rng Rand) float64 {
	return rng.Float64()*2 - 1
}
