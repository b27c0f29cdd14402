package impl

import "testing"

func TestDigitCodeGeneratorShape(t *testing.T) {
	g := NewDigitCodeGenerator()

	for i := 0; i < 100; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit character in code %q", code)
			}
		}
	}
}

func TestDigitCodeGeneratorVaries(t *testing.T) {
	g := NewDigitCodeGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		seen[code] = struct{}{}
	}
	// 50 draws from a million values colliding down to a handful would mean
	// a broken random source.
	if len(seen) < 40 {
		t.Fatalf("suspiciously few distinct codes: %d", len(seen))
	}
}
