// Package vercmp compares software version strings the way Linux
// distribution tools do. Unlike semantic versioning, distribution
// version strings have no fixed shape ("1.0~rc1", "2.4.1-3um0.1",
// "1.0+git20240115" are all valid), so comparison works on alternating
// numeric and alphabetic segments rather than a parsed structure.
package vercmp

import "strings"

// Compare returns -1 if a is older than b, 0 if they represent the same
// version, and 1 if a is newer than b.
//
// Rules: versions split into segments at non-alphanumeric characters;
// numeric segments compare as integers (leading zeros ignored), alphabetic
// segments compare lexically, and a numeric segment always outranks an
// alphabetic one. A tilde sorts before anything, including the end of the
// string ("1.0~rc1" < "1.0"), marking pre-releases. A caret sorts before
// anything except the end of the string ("1.0^git1" > "1.0" but
// "1.0^git1" < "1.0.1"), marking post-release snapshots.
func Compare(a, b string) int {
	if a == b {
		return 0
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		// Skip separators. Tilde and caret are significant, everything
		// else that is not alphanumeric merely delimits segments.
		for i < len(a) && !isAlnum(a[i]) && a[i] != '~' && a[i] != '^' {
			i++
		}
		for j < len(b) && !isAlnum(b[j]) && b[j] != '~' && b[j] != '^' {
			j++
		}

		aTilde := i < len(a) && a[i] == '~'
		bTilde := j < len(b) && b[j] == '~'
		if aTilde || bTilde {
			if !aTilde {
				return 1
			}
			if !bTilde {
				return -1
			}
			i++
			j++
			continue
		}

		aCaret := i < len(a) && a[i] == '^'
		bCaret := j < len(b) && b[j] == '^'
		if aCaret || bCaret {
			if i >= len(a) {
				return -1
			}
			if j >= len(b) {
				return 1
			}
			if !aCaret {
				return 1
			}
			if !bCaret {
				return -1
			}
			i++
			j++
			continue
		}

		if i >= len(a) || j >= len(b) {
			break
		}

		// Take one run of digits or one run of letters from each side.
		var segA, segB string
		numeric := isDigit(a[i])
		if numeric {
			start := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			segA = a[start:i]
			start = j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			segB = b[start:j]
		} else {
			start := i
			for i < len(a) && isAlpha(a[i]) {
				i++
			}
			segA = a[start:i]
			start = j
			for j < len(b) && isAlpha(b[j]) {
				j++
			}
			segB = b[start:j]
		}

		// segA is never empty here; segB is empty when the two sides
		// disagree on segment class, and the numeric side wins.
		if segB == "" {
			if numeric {
				return 1
			}
			return -1
		}

		if numeric {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}
		if segA != segB {
			if segA > segB {
				return 1
			}
			return -1
		}
	}

	// All segments matched; whichever side has content left is newer.
	if i >= len(a) && j >= len(b) {
		return 0
	}
	if i >= len(a) {
		return -1
	}
	return 1
}

// Newer reports whether version a is strictly newer than b.
func Newer(a, b string) bool {
	return Compare(a, b) > 0
}

// Older reports whether version a is strictly older than b.
func Older(a, b string) bool {
	return Compare(a, b) < 0
}

// Equal reports whether a and b represent the same version, even when
// the strings differ ("1.0" and "1_0" compare equal).
func Equal(a, b string) bool {
	return Compare(a, b) == 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isDigit(c) || isAlpha(c)
}
