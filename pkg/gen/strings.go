package gen

import (
	"github.com/nomagicln/propcheck/pkg/generator"
	"github.com/nomagicln/propcheck/pkg/rng"
)

const (
	alphaChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alnumChars = alphaChars + "0123456789"

	maxStringLen = 64
)

// AlphaString generates alphabetic strings up to a fixed length.
// Strings shrink by dropping characters.
func AlphaString() generator.Generator[string] {
	return stringOf(alphaChars, alphaChars)
}

// Identifier generates identifiers: a letter followed by alphanumerics.
func Identifier() generator.Generator[string] {
	g := stringOf(alphaChars, alnumChars)
	return generator.Filter(g, func(s string) bool { return s != "" })
}

func stringOf(firstChars, restChars string) generator.Generator[string] {
	return generator.FromFunc(func(rs *rng.Source) generator.Sample[string] {
		n := rs.Intn(maxStringLen + 1)
		buf := make([]byte, n)
		for i := range buf {
			if i == 0 {
				buf[i] = firstChars[rs.Intn(len(firstChars))]
			} else {
				buf[i] = restChars[rs.Intn(len(restChars))]
			}
		}
		return generator.Sample[string]{Shrinkable: shrinkString(string(buf))}
	}, "", "a")
}

// shrinkString drops characters: empty first, then the first half, then the
// string minus its last character.
func shrinkString(s string) generator.Shrinkable[string] {
	return generator.Shrinkable[string]{
		Value: s,
		Shrinks: func() []generator.Shrinkable[string] {
			if s == "" {
				return nil
			}
			seen := map[string]bool{s: true}
			var out []generator.Shrinkable[string]
			add := func(c string) {
				if !seen[c] {
					seen[c] = true
					out = append(out, shrinkString(c))
				}
			}
			add("")
			add(s[:len(s)/2])
			add(s[:len(s)-1])
			return out
		},
	}
}
