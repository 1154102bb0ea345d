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

package dashboard

import (
	"testing"
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/tally"
)

var classifyNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func activeProposal() *models.Proposal {
	return &models.Proposal{
		ProposalId: "p-1",
		Status:     string(council.StatusActive),
		ExpiryDate: classifyNow.Add(40 * time.Hour),
	}
}

func TestClassify(t *testing.T) {
	recordedAt := classifyNow.Add(-time.Hour)
	testDefs := []struct {
		name           string
		mutate         func(*models.Proposal)
		viewerProvince string
		viewerVoted    bool
		counts         tally.Counts
		expectedBucket Bucket
		expectedResult string
	}{
		{
			name:           "active",
			mutate:         func(p *models.Proposal) {},
			viewerProvince: "Hovalen",
			expectedBucket: BucketActive,
		},
		{
			name: "mandatory wins over urgency",
			mutate: func(p *models.Proposal) {
				p.Mandatory = true
				p.ExpiryDate = classifyNow.Add(time.Hour)
			},
			viewerProvince: "Hovalen",
			expectedBucket: BucketMandatoryActive,
		},
		{
			name: "withdrawn",
			mutate: func(p *models.Proposal) {
				p.Status = string(council.StatusWithdrawn)
				p.ExpiryDate = classifyNow.Add(-time.Hour)
			},
			viewerProvince: "Hovalen",
			expectedBucket: BucketWithdrawn,
			expectedResult: "WITHDRAWN",
		},
		{
			name: "expired with explicit status",
			mutate: func(p *models.Proposal) {
				p.Status = string(council.StatusPassedEarly)
				p.ExpiryDate = classifyNow.Add(-time.Hour)
			},
			viewerProvince: "Hovalen",
			expectedBucket: BucketExpired,
			expectedResult: "PASSED (Early)",
		},
		{
			name: "expired without status update uses ad hoc tally",
			mutate: func(p *models.Proposal) {
				p.ExpiryDate = classifyNow.Add(-time.Hour)
			},
			viewerProvince: "Hovalen",
			counts:         tally.Counts{Aye: 3, Nay: 2},
			expectedBucket: BucketExpired,
			expectedResult: "PASSED",
		},
		{
			name: "expired tie counts as failed",
			mutate: func(p *models.Proposal) {
				p.ExpiryDate = classifyNow.Add(-time.Hour)
			},
			viewerProvince: "Hovalen",
			counts:         tally.Counts{Aye: 2, Nay: 2},
			expectedBucket: BucketExpired,
			expectedResult: "FAILED",
		},
		{
			name: "scribe urgent for stale passed proposal",
			mutate: func(p *models.Proposal) {
				p.Status = string(council.StatusPassed)
				p.ExpiryDate = classifyNow.Add(-49 * time.Hour)
			},
			viewerProvince: council.ScribeProvince,
			expectedBucket: BucketScribeUrgent,
			expectedResult: "PASSED",
		},
		{
			name: "scribe sees expired when already recorded",
			mutate: func(p *models.Proposal) {
				p.Status = string(council.StatusPassed)
				p.ExpiryDate = classifyNow.Add(-49 * time.Hour)
				p.LawRecordedAt = &recordedAt
			},
			viewerProvince: council.ScribeProvince,
			expectedBucket: BucketExpired,
			expectedResult: "PASSED",
		},
		{
			name: "non-scribe sees expired for stale passed proposal",
			mutate: func(p *models.Proposal) {
				p.Status = string(council.StatusPassed)
				p.ExpiryDate = classifyNow.Add(-49 * time.Hour)
			},
			viewerProvince: "Hovalen",
			expectedBucket: BucketExpired,
			expectedResult: "PASSED",
		},
		{
			name: "urgent inside final day",
			mutate: func(p *models.Proposal) {
				p.ExpiryDate = classifyNow.Add(23 * time.Hour)
			},
			viewerProvince: "Hovalen",
			expectedBucket: BucketUrgent,
		},
		{
			name:           "voted",
			mutate:         func(p *models.Proposal) {},
			viewerProvince: "Hovalen",
			viewerVoted:    true,
			expectedBucket: BucketVoted,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			proposal := activeProposal()
			testDef.mutate(proposal)
			view := Classify(Input{
				Proposal:       proposal,
				ViewerProvince: testDef.viewerProvince,
				ViewerVoted:    testDef.viewerVoted,
				Counts:         testDef.counts,
				Now:            classifyNow,
			})
			if view.Bucket != testDef.expectedBucket {
				t.Fatalf(
					"unexpected bucket: got %s, expected %s",
					view.Bucket,
					testDef.expectedBucket,
				)
			}
			if view.Result != testDef.expectedResult {
				t.Fatalf(
					"unexpected result: got %q, expected %q",
					view.Result,
					testDef.expectedResult,
				)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	proposal := activeProposal()
	proposal.ExpiryDate = classifyNow.Add(-time.Hour)
	input := Input{
		Proposal:       proposal,
		ViewerProvince: "Hovalen",
		Counts:         tally.Counts{Aye: 1, Nay: 2},
		Now:            classifyNow,
	}
	first := Classify(input)
	second := Classify(input)
	if first != second {
		t.Fatalf(
			"classification not stable: %+v then %+v",
			first,
			second,
		)
	}
}
