// Package physics provides the normalized two-body model.
//
//   - [Constants]: immutable normalization (l, k, periapsis, reference velocity, AU, h)
//   - [Kepler]: the reduced radial equations, implementing [dynamo.Separable]
//     and [dynamo.Hamiltonian]
//
// # Normalization
//
// Distances are measured in periapsis distances and time in units of
// periapsis distance over periapsis velocity, so a body starting at
// periapsis has r0 = 1, v0 = 0 and l = 1:
//
//	c, _ := physics.NewConstants(physics.EarthParams())
//	dyn := physics.NewKepler(c)
//	e0, _ := dyn.Energy(dynamo.State{R: 1})
package physics
