// HEALPix RING-scheme pixelization, ported from the reference C routines.
package astro

import "math"

// NPix returns the number of HEALPix pixels for the given nside.
func NPix(nside int) int { return 12 * nside * nside }

// AngToPix returns the RING-scheme pixel containing the direction
// (theta, phi), where theta is colatitude and phi is longitude, radians.
func AngToPix(nside int, theta, phi float64) int {
	z := math.Cos(theta)
	za := math.Abs(z)
	tt := math.Mod(phi/(math.Pi/2), 4)
	if tt < 0 {
		tt += 4
	}
	ns := float64(nside)
	npix := NPix(nside)
	ncap := 2 * nside * (nside - 1)

	if za <= 2.0/3.0 {
		// equatorial region
		temp1 := ns * (0.5 + tt)
		temp2 := ns * z * 0.75
		jp := int(math.Floor(temp1 - temp2))
		jm := int(math.Floor(temp1 + temp2))

		ir := nside + 1 + jp - jm
		kshift := 1 - ir&1
		ip := (jp + jm - nside + kshift + 1) / 2
		ip = ip % (4 * nside)
		if ip < 0 {
			ip += 4 * nside
		}
		return ncap + (ir-1)*4*nside + ip
	}

	// polar caps
	tp := tt - math.Floor(tt)
	tmp := ns * math.Sqrt(3*(1-za))
	jp := int(math.Floor(tp * tmp))
	jm := int(math.Floor((1 - tp) * tmp))

	ir := jp + jm + 1
	ip := int(math.Floor(tt * float64(ir)))
	ip = ip % (4 * ir)
	if ip < 0 {
		ip += 4 * ir
	}
	if z > 0 {
		return 2*ir*(ir-1) + ip
	}
	return npix - 2*ir*(ir+1) + ip
}

// PixToAng returns the center direction (theta, phi) of a RING-scheme pixel.
func PixToAng(nside, pix int) (theta, phi float64) {
	ns := float64(nside)
	npix := NPix(nside)
	ncap := 2 * nside * (nside - 1)

	if pix < ncap {
		// north polar cap
		hip := (float64(pix) + 1) / 2
		iring := int(math.Floor(math.Sqrt(hip-math.Sqrt(math.Floor(hip))))) + 1
		iphi := pix + 1 - 2*iring*(iring-1)
		theta = math.Acos(1 - float64(iring*iring)/(3*ns*ns))
		phi = (float64(iphi) - 0.5) * math.Pi / (2 * float64(iring))
		return theta, phi
	}
	if pix < npix-ncap {
		// equatorial belt
		ip := pix - ncap
		iring := ip/(4*nside) + nside
		iphi := ip%(4*nside) + 1
		fodd := 0.5
		if (iring+nside)&1 == 1 {
			fodd = 1.0
		}
		theta = math.Acos((float64(2*nside-iring) * 2) / (3 * ns))
		phi = (float64(iphi) - fodd) * math.Pi / (2 * ns)
		return theta, phi
	}
	// south polar cap
	ip := npix - pix
	hip := float64(ip) / 2
	iring := int(math.Floor(math.Sqrt(hip-math.Sqrt(math.Floor(hip))))) + 1
	iphi := 4*iring + 1 - (ip - 2*iring*(iring-1))
	theta = math.Acos(-1 + float64(iring*iring)/(3*ns*ns))
	phi = (float64(iphi) - 0.5) * math.Pi / (2 * float64(iring))
	return theta, phi
}

// RADecToPix returns the RING-scheme pixel containing an RA/Dec direction.
func RADecToPix(nside int, ra, dec float64) int {
	return AngToPix(nside, math.Pi/2-dec, ra)
}

// PixToRADec returns the RA/Dec center of a RING-scheme pixel.
func PixToRADec(nside, pix int) (ra, dec float64) {
	theta, phi := PixToAng(nside, pix)
	return normalizeAngle(phi), math.Pi/2 - theta
}
