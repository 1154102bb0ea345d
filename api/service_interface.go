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
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package api

import (
	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/lifecycle"
	"github.com/blinklabs-io/witan/scribe"
	"github.com/blinklabs-io/witan/tally"
)

// CouncilService is the interface the API server uses to reach the
// governance engine. It decouples the HTTP layer from the concrete node
// wiring and enables testing with mock implementations. All proposals
// and amendments are addressed by their public string identifiers.
type CouncilService interface {
	// CreateLaw validates and persists a new law proposal.
	CreateLaw(
		province string,
		draft council.LawDraft,
	) (*models.Proposal, error)

	// CreateBudget validates and persists a new budget proposal.
	CreateBudget(
		province string,
		draft council.BudgetDraft,
	) (*models.Proposal, error)

	// ListProposals returns all proposals, newest first.
	ListProposals() ([]models.Proposal, error)

	// ListProposalsByStatus returns proposals in the given status.
	ListProposalsByStatus(
		status council.Status,
	) ([]models.Proposal, error)

	// GetProposal returns a single proposal.
	GetProposal(proposalId string) (*models.Proposal, error)

	// CastVote records a province's vote on a proposal's current
	// voting target.
	CastVote(
		proposalId string,
		province string,
		choice council.VoteChoice,
	) (*lifecycle.VoteResult, error)

	// EndVotingEarly closes voting ahead of the deadline.
	EndVotingEarly(
		proposalId string,
		actingProvince string,
	) (*lifecycle.EarlyEndResult, error)

	// Withdraw retracts an active proposal.
	Withdraw(proposalId string, actingProvince string) error

	// SubmitAmendment attaches replacement content to a proposal.
	SubmitAmendment(
		proposalId string,
		province string,
		content lifecycle.AmendmentContent,
	) (*models.Amendment, error)

	// ListAmendments returns a proposal's amendments, oldest first.
	ListAmendments(proposalId string) ([]models.Amendment, error)

	// CurrentContent returns the proposal content currently under
	// vote (the active amendment's, when one exists).
	CurrentContent(
		proposalId string,
	) (lifecycle.AmendmentContent, error)

	// Tally returns the weighted counts for the proposal's current
	// voting target.
	Tally(proposalId string) (tally.Counts, error)

	// HasVoted reports whether the province has a recorded vote on
	// the proposal's current voting target.
	HasVoted(proposalId string, province string) (bool, error)

	// ListProvinces returns the council roster.
	ListProvinces() ([]models.Province, error)

	// Authenticate verifies a province's credentials and returns its
	// roster entry on success.
	Authenticate(
		province string,
		password string,
	) (*models.Province, error)

	// PendingReview returns passed proposals awaiting law book entry,
	// oldest expiry first.
	PendingReview() ([]models.Proposal, error)

	// RecordLaw enters a passed proposal into the law book.
	RecordLaw(
		proposalId string,
		actingProvince string,
	) (*scribe.LawRecord, error)

	// LawBook returns all recorded laws in legislation number order.
	LawBook() ([]scribe.LawRecord, error)

	// LawRecord returns a single recorded law.
	LawRecord(legislationNumber string) (*scribe.LawRecord, error)
}
