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

// Package dashboard derives the per-viewer display classification of a
// proposal. Classification is pure: the same inputs always produce the
// same view, and nothing is mutated.
package dashboard

import (
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/tally"
)

// Bucket is the display bucket a proposal card lands in
type Bucket string

const (
	BucketMandatoryActive Bucket = "mandatory-active"
	BucketWithdrawn       Bucket = "withdrawn"
	BucketScribeUrgent    Bucket = "scribe-urgent"
	BucketExpired         Bucket = "expired"
	BucketUrgent          Bucket = "urgent"
	BucketVoted           Bucket = "voted"
	BucketActive          Bucket = "active"
)

// Input carries everything Classify needs about a proposal and viewer
type Input struct {
	Proposal *models.Proposal
	// ViewerProvince is the province looking at the dashboard
	ViewerProvince string
	// ViewerVoted is true when the viewer has a recorded vote on the
	// currently active target (the active amendment when one exists)
	ViewerVoted bool
	// Counts is the proposal's current weighted tally, used for the ad
	// hoc result of proposals that expired without a status update
	Counts tally.Counts
	Now    time.Time
}

// View is the derived display state of a proposal card
type View struct {
	Bucket        Bucket
	Result        string
	TimeRemaining string
}

// Classify determines a proposal's display bucket for a viewer. Rules are
// priority ordered; the first match wins.
func Classify(in Input) View {
	p := in.Proposal
	view := View{
		Result:        resultLabel(in),
		TimeRemaining: council.TimeRemaining(in.Now, p.ExpiryDate),
	}
	status := council.Status(p.Status)
	switch {
	case p.Mandatory && p.ExpiryDate.After(in.Now):
		view.Bucket = BucketMandatoryActive
	case status == council.StatusWithdrawn:
		view.Bucket = BucketWithdrawn
	case !p.ExpiryDate.After(in.Now):
		if in.ViewerProvince == council.ScribeProvince &&
			status.Passed() &&
			p.LawRecordedAt == nil &&
			in.Now.Sub(p.ExpiryDate) > council.ScribeUrgentAfter {
			view.Bucket = BucketScribeUrgent
		} else {
			view.Bucket = BucketExpired
		}
	case p.ExpiryDate.Sub(in.Now) < council.UrgentWindow:
		view.Bucket = BucketUrgent
	case in.ViewerVoted:
		view.Bucket = BucketVoted
	default:
		view.Bucket = BucketActive
	}
	return view
}

// resultLabel derives the result string for a resolved card. A proposal
// that reached its expiry while still marked active gets an ad hoc result
// from the current weighted votes, with ties counting as failed.
func resultLabel(in Input) string {
	p := in.Proposal
	status := council.Status(p.Status)
	if label := status.ResultLabel(); label != "" {
		return label
	}
	if !p.ExpiryDate.After(in.Now) {
		if in.Counts.Aye > in.Counts.Nay {
			return council.StatusPassed.ResultLabel()
		}
		return council.StatusFailed.ResultLabel()
	}
	return ""
}
