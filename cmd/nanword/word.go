package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/nantag/codec"
	"github.com/wippyai/nantag/resource"
)

const (
	exponentBits = 11
	mantissaBits = 52
	exponentMask = 1<<exponentBits - 1
	mantissaMask = 1<<mantissaBits - 1
)

// wordInfo is the decoded view of a word shared by decode and inspect.
type wordInfo struct {
	Word     codec.Word
	Class    codec.Class
	Sign     uint64
	Exponent uint64
	Mantissa uint64
	Value    string
	Valid    error
}

func describeWord(w codec.Word) wordInfo {
	bits := uint64(w)
	info := wordInfo{
		Word:     w,
		Class:    w.Class(),
		Sign:     bits >> 63,
		Exponent: bits >> mantissaBits & exponentMask,
		Mantissa: bits & mantissaMask,
		Valid:    codec.Validate(w),
	}

	switch {
	case info.Class == codec.ClassFloat:
		info.Value = strconv.FormatFloat(w.Float(), 'g', -1, 64)
	case info.Valid != nil:
		info.Value = fmt.Sprintf("addr %#x", w.Addr())
	default:
		info.Value = fmt.Sprintf("addr %#x (slot %s)", w.Addr(), resource.Addr(w.Addr()))
	}
	return info
}

func (i wordInfo) validity() string {
	if i.Valid != nil {
		return i.Valid.Error()
	}
	return "ok"
}

// parseWord accepts a word in any Go integer literal form, including
// 0x-prefixed hex with underscore grouping.
func parseWord(s string) (codec.Word, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid word %q: %w", s, err)
	}
	return codec.Word(v), nil
}

// parseFloat accepts decimal and hex floats as well as nan and inf.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q: %w", s, err)
	}
	return v, nil
}

// parseInput reads a word when the input has an integer prefix such as 0x
// and a float otherwise.
func parseInput(s string) (codec.Word, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(t, "0x") && !strings.ContainsAny(t, ".p") {
		return parseWord(t)
	}
	f, err := parseFloat(t)
	if err != nil {
		return 0, err
	}
	return codec.EncodeFloat(f), nil
}

// canonicalized reports whether encoding v changed its bits.
func canonicalized(v float64, w codec.Word) bool {
	return math.Float64bits(v) != uint64(w)
}
