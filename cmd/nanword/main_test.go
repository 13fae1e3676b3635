package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/wippyai/nantag/codec"
	"github.com/wippyai/nantag/resource"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--plain"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestParseWord(t *testing.T) {
	tests := []struct {
		in      string
		want    codec.Word
		wantErr bool
	}{
		{"0x7ff8_0000_0000_0001", 0x7FF8_0000_0000_0001, false},
		{"0x7FFC000000000000", codec.Word(codec.CanonicalNaNBits), false},
		{"42", 42, false},
		{" 0b101 ", 5, false},
		{"0x1_0000_0000_0000_0000", 0, true},
		{"word", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWord(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseWord(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseWord(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		in   string
		want codec.Word
	}{
		{"1.5", codec.EncodeFloat(1.5)},
		{"NaN", codec.Word(codec.CanonicalNaNBits)},
		{"-inf", codec.EncodeFloat(math.Inf(-1))},
		{"0x1p-2", codec.EncodeFloat(0.25)},
		{"0x7ff8_0000_0000_0001", 0x7FF8_0000_0000_0001},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseInput(tt.in)
			if err != nil {
				t.Fatalf("parseInput(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseInput(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	if _, err := parseInput("twelve"); err == nil {
		t.Fatal("parseInput accepted text")
	}
}

func TestDescribeWord(t *testing.T) {
	f := describeWord(codec.EncodeFloat(-2))
	if f.Class != codec.ClassFloat || f.Sign != 1 || f.Exponent != 0x400 || f.Mantissa != 0 {
		t.Fatalf("describeWord(-2) = %+v", f)
	}
	if f.Value != "-2" || f.validity() != "ok" {
		t.Fatalf("Value/validity = %q/%q", f.Value, f.validity())
	}

	p := describeWord(codec.EncodePointer(uint64(1<<32 | 3)))
	if p.Class != codec.ClassPointer || p.Exponent != exponentMask {
		t.Fatalf("describeWord(pointer) = %+v", p)
	}
	if !strings.Contains(p.Value, "slot 2@1") {
		t.Fatalf("Value = %q", p.Value)
	}

	bad := describeWord(codec.Word(codec.PointerMask))
	if bad.Valid == nil || bad.validity() == "ok" {
		t.Fatal("address 0 reported valid")
	}
}

func TestEncodeCmd(t *testing.T) {
	out, err := runCmd(t, "encode", "1.5", "nan")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out)
	}
	if lines[1] != "1.5\t0x3ff8_0000_0000_0000\tfloat\t" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "nan\t0x7ffc_0000_0000_0000\tfloat\tcanonicalized" {
		t.Errorf("row 2 = %q", lines[2])
	}

	if _, err := runCmd(t, "encode", "abc"); err == nil {
		t.Fatal("encode accepted text")
	}
}

func TestDecodeCmd(t *testing.T) {
	out, err := runCmd(t, "decode", "0x7ff8_0000_0000_0001", "0x4000000000000000")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !strings.Contains(out, "pointer\taddr 0x1 (slot 0@0)\tok") {
		t.Errorf("pointer row missing in %q", out)
	}
	if !strings.Contains(out, "float\t2\tok") {
		t.Errorf("float row missing in %q", out)
	}
}

func TestStackCmd(t *testing.T) {
	prev := resource.Default()
	s := resource.NewSpace(nil)
	resource.SetDefault(s)
	defer resource.SetDefault(prev)

	out, err := runCmd(t, "stack", "1", "hello", "2.5", "world")
	if err != nil {
		t.Fatalf("stack failed: %v", err)
	}
	for _, want := range []string{"\"hello\"", "\"world\"", "2.5", "allocs=2 frees=2 live=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("stack leaked %d slots", s.Len())
	}
}

func TestStackCmd_TooSmall(t *testing.T) {
	args := []string{"stack", "--pages", "1"}
	for i := 0; i < 8193; i++ {
		args = append(args, "1")
	}
	if _, err := runCmd(t, args...); err == nil {
		t.Fatal("stack accepted more words than fit in one page")
	}
}

func TestRootCmd_LogLevel(t *testing.T) {
	if _, err := runCmd(t, "--log-level", "loud", "encode", "1"); err == nil {
		t.Fatal("invalid log level accepted")
	}
}

func TestRootCmd_Env(t *testing.T) {
	t.Setenv("NANWORD_LOG_LEVEL", "loud")
	if _, err := runCmd(t, "encode", "1"); err == nil {
		t.Fatal("log level from environment was ignored")
	}
}
