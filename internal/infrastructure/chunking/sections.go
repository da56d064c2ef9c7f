package chunking

import (
	"regexp"
	"strings"
)

// section is one structural unit (article, paragraph, regulation) located in
// the full text. id is the captured number, bodyStart the offset right after
// the header match.
type section struct {
	id        string
	start     int
	bodyStart int
	end       int
}

// findSections locates every header match and bounds each section by the
// next header or the earliest stop marker inside its own body, whichever
// comes first. Go's RE2 has no lookahead, so bounded extraction works on
// match positions instead of the lookahead splits a PCRE engine would allow.
// A stop marker (annex/schedule mention) truncates only the section it
// appears in; later headers still produce sections.
func findSections(text string, header *regexp.Regexp, stops ...*regexp.Regexp) []section {
	matches := header.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]section, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		for _, stop := range stops {
			if loc := stop.FindStringIndex(text[m[1]:end]); loc != nil {
				end = m[1] + loc[0]
			}
		}
		out = append(out, section{
			id:        text[m[2]:m[3]],
			start:     m[0],
			bodyStart: m[1],
			end:       end,
		})
	}
	return out
}

// heading is a chapter/part context marker with its line title.
type heading struct {
	pos   int
	label string
	title string
}

// findHeadings expects a pattern with two captures: the heading number and
// the title line.
func findHeadings(text string, re *regexp.Regexp, render func(num string) string) []heading {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	out := make([]heading, 0, len(matches))
	for _, m := range matches {
		out = append(out, heading{
			pos:   m[0],
			label: render(text[m[2]:m[3]]),
			title: strings.TrimSpace(text[m[4]:m[5]]),
		})
	}
	return out
}

// headingBefore returns the nearest heading above pos. Headings are in text
// order, so the last one before pos wins.
func headingBefore(headings []heading, pos int) (string, string) {
	label, title := "", ""
	for _, h := range headings {
		if h.pos >= pos {
			break
		}
		label, title = h.label, h.title
	}
	return label, title
}

// splitBefore splits text at every match start, keeping the marker attached
// to the part it introduces. With no match the whole text comes back as a
// single part, which callers treat as "strategy did not apply".
func splitBefore(text string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	parts := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			parts = append(parts, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	parts = append(parts, text[prev:])
	return parts
}
