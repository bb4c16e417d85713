package config

import "unicode"

// Adjacency maps a lowercase character to the keys physically next to it.
// Read-only once loaded.
type Adjacency map[rune][]rune

// Neighbors returns the adjacent keys of r, matched case-insensitively
func (a Adjacency) Neighbors(r rune) []rune {
	return a[toLower(r)]
}

func toLower(r rune) rune {
	return unicode.ToLower(r)
}

// QWERTY is the stock US layout table
func QWERTY() map[string]string {
	return map[string]string{
		"q": "was",
		"w": "qesad",
		"e": "wrsdf",
		"r": "etdfg",
		"t": "ryfgh",
		"y": "tughj",
		"u": "yihjk",
		"i": "uojkl",
		"o": "ipkl",
		"p": "ol",
		"a": "qwsz",
		"s": "qweadzx",
		"d": "werfsxc",
		"f": "ertdgcv",
		"g": "rtyfhvb",
		"h": "tyugjbn",
		"j": "yuihknm",
		"k": "uiojlm",
		"l": "iopk",
		"z": "asx",
		"x": "zsdc",
		"c": "xdfv",
		"v": "cfgb",
		"b": "vghn",
		"n": "bhjm",
		"m": "njk",
		"1": "2q",
		"2": "13qw",
		"3": "24we",
		"4": "35er",
		"5": "46rt",
		"6": "57ty",
		"7": "68yu",
		"8": "79ui",
		"9": "80io",
		"0": "9op",
	}
}
