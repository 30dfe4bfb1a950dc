package main

// CheckCollision checks if two spheres overlap or touch
func CheckCollision(a Vec3, ra float64, b Vec3, rb float64) bool {
	d := a.Sub(b)
	radSum := ra + rb
	return d.Dot(d) <= radSum*radSum
}

// depenetrate returns the point just outside a sphere of radius hitDist
// around center along the unit normal. The extra 2 units keep the ship from
// re-touching on the next tick.
func depenetrate(center, normal Vec3, hitDist float64) Vec3 {
	return center.Add(normal.Scale(hitDist + 2))
}
