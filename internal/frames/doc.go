// Package frames turns a heliocentric position and a UTC instant into the
// apparent horizontal coordinates of the Sun for a surface observer.
//
// The chain is fixed:
//
//	perihelion frame  -> vernal frame        Rz(varpi)
//	vernal (negated)  -> equatorial          Rx(epsilon)
//	equatorial        -> Earth-fixed         Rz'(theta_L), opposite sense
//	Earth-fixed       -> topocentric         Ry'(90 - lat), minus Earth radius
//	topocentric       -> azimuth, altitude
//
// The rotation sense of the Earth-fixed stage is opposite to the first two
// stages. That asymmetry reproduces validated outputs and is kept as is.
package frames
