package envutil

import "testing"

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestString_FallsBackOnEmpty(t *testing.T) {
	t.Parallel()

	getenv := fakeEnv(map[string]string{"A": "  ", "B": " x "})
	if got := String(getenv, "A", "def"); got != "def" {
		t.Fatalf("expected def, got %q", got)
	}
	if got := String(getenv, "B", "def"); got != "x" {
		t.Fatalf("expected x, got %q", got)
	}
}

func TestBool_ParsesCommonValues(t *testing.T) {
	t.Parallel()

	getenv := fakeEnv(map[string]string{"T": "Yes", "F": "off", "X": "banana"})
	if !Bool(getenv, "T", false) {
		t.Fatalf("expected true for Yes")
	}
	if Bool(getenv, "F", true) {
		t.Fatalf("expected false for off")
	}
	if !Bool(getenv, "X", true) {
		t.Fatalf("expected default for unknown value")
	}
}

func TestInt_FallsBackOnGarbage(t *testing.T) {
	t.Parallel()

	getenv := fakeEnv(map[string]string{"N": "42", "G": "4x"})
	if got := Int(getenv, "N", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := Int(getenv, "G", 7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
