package core

import (
	"math"
	"math/rand"
)

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RandomRange returns a random float64 in [minVal, maxVal)
func RandomRange(random *rand.Rand, minVal, maxVal float64) float64 {
	return minVal + (maxVal-minVal)*random.Float64()
}

// RandomVec3 returns a vector with each component in [minVal, maxVal)
func RandomVec3(random *rand.Rand, minVal, maxVal float64) Vec3 {
	return NewVec3(
		RandomRange(random, minVal, maxVal),
		RandomRange(random, minVal, maxVal),
		RandomRange(random, minVal, maxVal),
	)
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(random *rand.Rand) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		p := NewVec3(2*random.Float64()-1, 2*random.Float64()-1, 0)
		// Accept if inside unit disk
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomInUnitSphere generates a random point strictly inside the unit sphere
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := RandomVec3(random, -1, 1)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a uniformly distributed direction on the unit sphere
func RandomUnitVector(random *rand.Rand) Vec3 {
	for {
		p := RandomVec3(random, -1, 1)
		lensq := p.LengthSquared()
		// Reject points too close to the origin, their normalization underflows
		if 1e-160 < lensq && lensq <= 1.0 {
			return p.Divide(math.Sqrt(lensq))
		}
	}
}
