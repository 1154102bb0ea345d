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

package diff

import (
	"github.com/blinklabs-io/witan/council"
)

// LineItemChange is a single entry of a budget line-item diff. For a
// modified item, Item holds the amended version and Previous the
// original, so a renderer can show the old and new amounts side by side.
type LineItemChange struct {
	Item           council.LineItem
	Previous       *council.LineItem
	Classification Classification
}

// LineItems computes a structured diff between two budget line-item
// lists. Items are matched by exact title; a matched item with a changed
// amount or description is modified. Renames are not detected and show
// up as one removal plus one addition.
func LineItems(
	original []council.LineItem,
	amended []council.LineItem,
) []LineItemChange {
	originalByTitle := make(map[string]council.LineItem, len(original))
	for _, item := range original {
		originalByTitle[item.Title] = item
	}
	amendedTitles := make(map[string]struct{}, len(amended))
	for _, item := range amended {
		amendedTitles[item.Title] = struct{}{}
	}

	result := make([]LineItemChange, 0, len(amended)+len(original))

	for _, item := range amended {
		origItem, exists := originalByTitle[item.Title]
		if !exists {
			result = append(result, LineItemChange{
				Item:           item,
				Classification: Added,
			})
			continue
		}
		if origItem.Amount != item.Amount ||
			origItem.Description != item.Description {
			prev := origItem
			result = append(result, LineItemChange{
				Item:           item,
				Previous:       &prev,
				Classification: Modified,
			})
			continue
		}
		result = append(result, LineItemChange{
			Item:           item,
			Classification: Unchanged,
		})
	}

	// Items only present in the original are removals, reported in
	// original order after the amended items.
	for _, item := range original {
		if _, exists := amendedTitles[item.Title]; exists {
			continue
		}
		result = append(result, LineItemChange{
			Item:           item,
			Classification: Removed,
		})
	}

	return result
}
