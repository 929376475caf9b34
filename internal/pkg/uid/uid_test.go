package uid

import "testing"

func TestUUID_Generate(t *testing.T) {
	g := NewUUID()

	a := g.Generate()
	b := g.Generate()

	if len(a) != 36 {
		t.Errorf("Generate() length = %d, want 36", len(a))
	}
	if a == b {
		t.Error("expected unique values")
	}
}

func TestSnowflake_Generate(t *testing.T) {
	g, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("NewSnowflake() error = %v", err)
	}

	a := g.Generate()
	b := g.Generate()

	if a <= 0 || b <= 0 {
		t.Errorf("Generate() returned non-positive ids: %d %d", a, b)
	}
	if a == b {
		t.Error("expected unique values")
	}
}

func TestSnowflake_RandomNode(t *testing.T) {
	g, err := NewSnowflake()
	if err != nil {
		t.Fatalf("NewSnowflake() error = %v", err)
	}
	if g.Generate() == 0 {
		t.Error("Generate() = 0")
	}
}
