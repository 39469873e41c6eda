package optimize

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// Vector capabilities detection
var (
	useAVX2 bool // x86_64 AVX2
	useNEON bool // ARM64 NEON
)

func init() {
	if cpu.ARM64.HasASIMD {
		// ARMv8 ships ASIMD (NEON) as standard
		useNEON = true
	}
	if cpu.X86.HasAVX2 {
		useAVX2 = true
	}
}

var crlf = []byte("\r\n")

// Vectorized reports whether IndexCRLF hands longer inputs to bytes.Index,
// whose runtime implementation is vectorised, instead of the byte loop.
func Vectorized() bool {
	return useAVX2 || useNEON
}

// IndexCRLF returns the index of the first CRLF in b, or -1.
func IndexCRLF(b []byte) int {
	// Short inputs don't amortize the vector setup
	if len(b) < 16 || !Vectorized() {
		return indexCRLFScalar(b)
	}
	return bytes.Index(b, crlf)
}

func indexCRLFScalar(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return i
		}
	}
	return -1
}

// SplitCRLF splits b around every CRLF. Like strings.Split, a b without
// any CRLF yields a single element and a trailing CRLF yields an empty
// last element.
func SplitCRLF(b []byte) [][]byte {
	lines := make([][]byte, 0, 8)
	for {
		i := IndexCRLF(b)
		if i < 0 {
			return append(lines, b)
		}
		lines = append(lines, b[:i])
		b = b[i+2:]
	}
}
