package host

import "testing"

func TestShadeToRGBA(t *testing.T) {
	var shades [160 * 144]byte
	shades[0] = 0
	shades[1] = 3
	out := make([]byte, 160*144*4)
	shadeToRGBA(&shades, out)

	if got, want := out[0:4], dmgPalette[0]; !bytesEqual(got, want[:]) {
		t.Fatalf("pixel 0 = %v, want %v", got, want)
	}
	if got, want := out[4:8], dmgPalette[3]; !bytesEqual(got, want[:]) {
		t.Fatalf("pixel 1 = %v, want %v", got, want)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
