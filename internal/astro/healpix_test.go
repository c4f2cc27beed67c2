package astro

import (
	"math"
	"testing"
)

func TestNPix(t *testing.T) {
	if got := NPix(32); got != 12288 {
		t.Errorf("expected 12288 pixels at nside 32, got %d", got)
	}
}

func TestPixAngRoundTrip(t *testing.T) {
	nside := 32
	for pix := 0; pix < NPix(nside); pix++ {
		theta, phi := PixToAng(nside, pix)
		if theta < 0 || theta > math.Pi {
			t.Fatalf("pixel %d: colatitude out of range: %f", pix, theta)
		}
		if got := AngToPix(nside, theta, phi); got != pix {
			t.Fatalf("pixel %d: round trip gave %d", pix, got)
		}
	}
}

func TestRADecPixRoundTrip(t *testing.T) {
	nside := 32
	for pix := 0; pix < NPix(nside); pix += 7 {
		ra, dec := PixToRADec(nside, pix)
		if got := RADecToPix(nside, ra, dec); got != pix {
			t.Fatalf("pixel %d: round trip gave %d", pix, got)
		}
	}
}

func TestPolesMapToCapPixels(t *testing.T) {
	nside := 32
	if pix := AngToPix(nside, 0, 0.3); pix >= 4 {
		t.Errorf("north pole fell outside the first ring: %d", pix)
	}
	if pix := AngToPix(nside, math.Pi, 0.3); pix < NPix(nside)-4 {
		t.Errorf("south pole fell outside the last ring: %d", pix)
	}
}
