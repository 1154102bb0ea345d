// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diff renders amendment previews: a line-oriented text diff for
// law amendments and a structured diff over named line items for budget
// amendments. The text diff is a membership heuristic, not an LCS diff;
// it is cheap and good enough for prose, but reordered identical lines
// can misclassify.
package diff

import (
	"strings"
)

// Classification describes how a line or line item changed
type Classification string

const (
	Unchanged Classification = "unchanged"
	Added     Classification = "added"
	Removed   Classification = "removed"
	Modified  Classification = "modified"
)

// Line is a single classified line of a text diff
type Line struct {
	Text           string
	Classification Classification
}

// Lines computes a line-oriented diff between original and amended text.
// A line with any occurrence in the original is unchanged; a line only
// in the amended text is added; original lines absent from the amended
// text are removed. Output order is amended-text order followed by
// removals in original-text order.
func Lines(original string, amended string) []Line {
	originalLines := strings.Split(original, "\n")
	amendedLines := strings.Split(amended, "\n")

	originalSet := make(map[string]struct{}, len(originalLines))
	for _, line := range originalLines {
		originalSet[line] = struct{}{}
	}
	amendedSet := make(map[string]struct{}, len(amendedLines))
	for _, line := range amendedLines {
		amendedSet[line] = struct{}{}
	}

	result := make([]Line, 0, len(amendedLines)+len(originalLines))

	// First pass walks the amended text, classifying unchanged and added
	// lines. Every occurrence of a common line is emitted as unchanged,
	// so the non-removed lines always reconstruct the amended text in
	// order.
	for _, line := range amendedLines {
		classification := Added
		if _, inOriginal := originalSet[line]; inOriginal {
			classification = Unchanged
		}
		result = append(result, Line{
			Text:           line,
			Classification: classification,
		})
	}

	// Second pass collects removals: original lines with no occurrence
	// anywhere in the amended text. Removals of the same line are only
	// reported once.
	removed := make(map[string]struct{})
	for _, line := range originalLines {
		if _, inAmended := amendedSet[line]; inAmended {
			continue
		}
		if _, seen := removed[line]; seen {
			continue
		}
		result = append(result, Line{
			Text:           line,
			Classification: Removed,
		})
		removed[line] = struct{}{}
	}

	return result
}

// ColorScheme is a presentational hint for rendering a diff. First-level
// amendments render additions blue and removals red; an amendment of an
// amendment renders green and orange so a reader can tell which layer a
// change belongs to.
type ColorScheme struct {
	Addition string
	Removal  string
}

// SchemeForDepth returns the display color scheme for an amendment at
// the given nesting depth.
func SchemeForDepth(depth int) ColorScheme {
	if depth >= 2 {
		return ColorScheme{Addition: "green", Removal: "orange"}
	}
	return ColorScheme{Addition: "blue", Removal: "red"}
}
