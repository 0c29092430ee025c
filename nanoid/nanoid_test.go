package nanoid

import (
	"strings"
	"testing"
)

func TestNumber(t *testing.T) {
	got := Number(6)
	if len(got) != 6 {
		t.Fatalf("Number(6) length = %d, want 6", len(got))
	}
	if strings.Trim(got, numberAlphabet) != "" {
		t.Errorf("Number(6) = %q contains non-digits", got)
	}
	if len(Number()) != defaultSize {
		t.Errorf("Number() length = %d, want %d", len(Number()), defaultSize)
	}
}

func TestString(t *testing.T) {
	got := String(10)
	if len(got) != 10 || strings.Trim(got, lowerUpperAlphabet) != "" {
		t.Errorf("String(10) = %q", got)
	}
}
