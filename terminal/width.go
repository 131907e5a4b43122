package terminal

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// graphemeWidth returns the column width of a single grapheme cluster.
// Zero-width joiners and variation selectors are folded into the cluster so
// the first rune decides the width.
func graphemeWidth(cluster string) int {
	for _, r := range cluster {
		return runewidth.RuneWidth(r)
	}
	return 0
}

// displayWidth returns the number of columns s occupies
func displayWidth(s string) int {
	width := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		width += graphemeWidth(cluster)
	}
	return width
}

// truncateWidth cuts s to at most maxCols columns without splitting a
// grapheme cluster, returning the kept prefix and its width
func truncateWidth(s string, maxCols int) (string, int) {
	if maxCols <= 0 {
		return "", 0
	}
	width := 0
	consumed := 0
	rest := s
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := graphemeWidth(cluster)
		if width+w > maxCols {
			break
		}
		width += w
		consumed += len(cluster)
	}
	return s[:consumed], width
}
