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

// Package tally computes weighted vote sums. A province's ballot counts
// for its configured vote weight, not one vote per province. Tallies are
// always recomputed from the vote map; stored counts are treated as a
// materialized view, never as a source of truth.
package tally

import (
	"github.com/blinklabs-io/witan/council"
)

// Counts holds the weighted sums for each vote bucket
type Counts struct {
	Aye     float64 `json:"aye"`
	Nay     float64 `json:"nay"`
	Present float64 `json:"present"`
}

// Total returns the combined weight of all cast votes
func (c Counts) Total() float64 {
	return c.Aye + c.Nay + c.Present
}

// Calculate sums the vote weights of each bucket from a vote map and a
// province weight table. Provinces absent from the vote map contribute
// nothing; a vote from a province missing from the weight table counts
// with weight zero.
func Calculate(
	votes map[string]council.VoteChoice,
	weights map[string]float64,
) Counts {
	var counts Counts
	for province, choice := range votes {
		weight := weights[province]
		switch choice {
		case council.VoteAye:
			counts.Aye += weight
		case council.VoteNay:
			counts.Nay += weight
		case council.VotePresent:
			counts.Present += weight
		}
	}
	return counts
}

// TotalWeight sums the configured weight of every province in the table,
// whether or not it has voted. This is the electorate base used for the
// King's supermajority check.
func TotalWeight(weights map[string]float64) float64 {
	var total float64
	for _, weight := range weights {
		total += weight
	}
	return total
}

// MeetsSupermajority reports whether the aye weight reaches the given
// fraction of the total electorate weight. The bar is measured against
// all provinces, not just those that voted.
func MeetsSupermajority(
	ayeWeight float64,
	totalWeight float64,
	fraction float64,
) bool {
	return ayeWeight >= fraction*totalWeight
}
