package backup

import (
	"errors"
	"testing"
)

func TestEncode_WireShape(t *testing.T) {
	data, err := Encode([]Entry{
		{Service: "github", Secret: "JBSWY3DPEHPK3PXP"},
		{Service: "aws", Secret: "GEZDGNBVGY3TQOJQ"},
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{"tokens":[{"service":"github","secret":"JBSWY3DPEHPK3PXP"},{"service":"aws","secret":"GEZDGNBVGY3TQOJQ"}]}`
	if string(data) != want {
		t.Errorf("Encode() = %s, want %s", data, want)
	}
}

func TestEncode_NilEntries(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(data) != `{"tokens":[]}` {
		t.Errorf("Encode() = %s, want empty tokens array", data)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	in := []Entry{{Service: "github", Secret: "JBSWY3DPEHPK3PXP"}}
	data, _ := Encode(in)

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Errorf("Decode() = %+v, want %+v", out, in)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "invalid json", payload: `{"tokens":`},
		{name: "not an object", payload: `[1,2,3]`},
		{name: "missing tokens", payload: `{}`},
		{name: "tokens wrong type", payload: `{"tokens":"nope"}`},
		{name: "unknown top-level key", payload: `{"tokens":[],"extra":true}`},
		{name: "entry missing service", payload: `{"tokens":[{"secret":"JBSWY3DP"}]}`},
		{name: "entry missing secret", payload: `{"tokens":[{"service":"github"}]}`},
		{name: "entry unknown key", payload: `{"tokens":[{"service":"a","secret":"b","note":"c"}]}`},
		{name: "entry wrong type", payload: `{"tokens":[{"service":1,"secret":"b"}]}`},
		{name: "trailing content", payload: `{"tokens":[]}{"tokens":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.payload)); !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecode_EmptyTokens(t *testing.T) {
	out, err := Decode([]byte(`{"tokens":[]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Decode() = %+v, want empty", out)
	}
}
