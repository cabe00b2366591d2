package disasm

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chewxy/math32"
)

// formatF32 renders the raw bits of an f32.const operand as Wat float
// text: the canonical "nan"/"+nan:0x<payload>"/"-nan:0x<payload>" and
// "infinity"/"-infinity" spellings for non-finite values (spec §4.5, §8
// invariant 7: "canonical NaN and infinity forms round-trip losslessly"),
// decimal otherwise.
//
// NaN and infinity are recognized by specialFloatText on the raw bits
// rather than by strconv on the decoded float, since the payload bits of a
// NaN are not otherwise observable once the value has gone through a Go
// float32; math32.Float32frombits is used only for finite values.
func formatF32(bits uint32) string {
	if s, ok := specialFloatText(uint64(bits), 8, 23); ok {
		return s
	}
	f := math32.Float32frombits(bits)
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// formatF64 is formatF32's f64 counterpart, using math.Float64frombits
// from the standard library since f64 needs no bit-shuffling the way f32
// const encoding does elsewhere in this module.
func formatF64(bits uint64) string {
	if s, ok := specialFloatText(bits, 11, 52); ok {
		return s
	}
	f := math.Float64frombits(bits)
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// specialFloatText recognizes the IEEE-754 all-ones-exponent cases (NaN,
// +/-Infinity) shared by f32 and f64, parameterized by exponent/mantissa
// field widths.
func specialFloatText(bits uint64, expBits, mantBits uint) (string, bool) {
	signBit := bits >> (expBits + mantBits) & 1
	expMask := uint64(1)<<expBits - 1
	exp := bits >> mantBits & expMask
	mantMask := uint64(1)<<mantBits - 1
	mant := bits & mantMask

	if exp != expMask {
		return "", false
	}

	sign := ""
	if signBit != 0 {
		sign = "-"
	}

	if mant == 0 {
		return sign + "infinity", true
	}

	canonicalPayload := uint64(1) << (mantBits - 1)
	if mant == canonicalPayload {
		return sign + "nan", true
	}

	payloadSign := "+"
	if signBit != 0 {
		payloadSign = "-"
	}
	return fmt.Sprintf("%snan:0x%x", payloadSign, mant), true
}
