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

package witan

import (
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/lifecycle"
	"github.com/blinklabs-io/witan/scribe"
	"github.com/blinklabs-io/witan/tally"
)

// councilService implements api.CouncilService over the node's
// components.
type councilService struct {
	db        *database.Database
	lifecycle *lifecycle.Manager
	scribe    *scribe.Queue
}

func (s *councilService) CreateLaw(
	province string,
	draft council.LawDraft,
) (*models.Proposal, error) {
	return s.lifecycle.CreateLaw(province, draft)
}

func (s *councilService) CreateBudget(
	province string,
	draft council.BudgetDraft,
) (*models.Proposal, error) {
	return s.lifecycle.CreateBudget(province, draft)
}

func (s *councilService) ListProposals() ([]models.Proposal, error) {
	return s.db.ListProposals(nil)
}

func (s *councilService) ListProposalsByStatus(
	status council.Status,
) ([]models.Proposal, error) {
	return s.db.ListProposalsByStatus(string(status), nil)
}

func (s *councilService) GetProposal(
	proposalId string,
) (*models.Proposal, error) {
	return s.db.GetProposal(proposalId, nil)
}

func (s *councilService) CastVote(
	proposalId string,
	province string,
	choice council.VoteChoice,
) (*lifecycle.VoteResult, error) {
	return s.lifecycle.CastVote(proposalId, province, choice)
}

func (s *councilService) EndVotingEarly(
	proposalId string,
	actingProvince string,
) (*lifecycle.EarlyEndResult, error) {
	return s.lifecycle.EndVotingEarly(proposalId, actingProvince)
}

func (s *councilService) Withdraw(
	proposalId string,
	actingProvince string,
) error {
	return s.lifecycle.Withdraw(proposalId, actingProvince)
}

func (s *councilService) SubmitAmendment(
	proposalId string,
	province string,
	content lifecycle.AmendmentContent,
) (*models.Amendment, error) {
	return s.lifecycle.SubmitAmendment(proposalId, province, content)
}

func (s *councilService) ListAmendments(
	proposalId string,
) ([]models.Amendment, error) {
	proposal, err := s.db.GetProposal(proposalId, nil)
	if err != nil {
		return nil, err
	}
	return s.db.ListAmendments(proposal.ID, nil)
}

func (s *councilService) CurrentContent(
	proposalId string,
) (lifecycle.AmendmentContent, error) {
	return s.lifecycle.CurrentContent(proposalId)
}

// currentScope resolves a proposal's current voting target: its own ID
// and the active amendment's ID, or zero when none is active.
func (s *councilService) currentScope(
	proposalId string,
) (uint, uint, error) {
	proposal, err := s.db.GetProposal(proposalId, nil)
	if err != nil {
		return 0, 0, err
	}
	amendment, err := s.db.GetActiveAmendment(proposal.ID, nil)
	if err != nil {
		return 0, 0, err
	}
	var amendmentID uint
	if amendment != nil {
		amendmentID = amendment.ID
	}
	return proposal.ID, amendmentID, nil
}

func (s *councilService) Tally(
	proposalId string,
) (tally.Counts, error) {
	proposalID, amendmentID, err := s.currentScope(proposalId)
	if err != nil {
		return tally.Counts{}, err
	}
	return s.lifecycle.Tally(proposalID, amendmentID)
}

func (s *councilService) HasVoted(
	proposalId string,
	province string,
) (bool, error) {
	proposalID, amendmentID, err := s.currentScope(proposalId)
	if err != nil {
		return false, err
	}
	choices, err := s.db.VoteChoices(proposalID, amendmentID, nil)
	if err != nil {
		return false, err
	}
	_, voted := choices[province]
	return voted, nil
}

func (s *councilService) ListProvinces() ([]models.Province, error) {
	return s.db.ListProvinces(nil)
}

func (s *councilService) Authenticate(
	province string,
	password string,
) (*models.Province, error) {
	return s.db.AuthenticateProvince(province, password)
}

func (s *councilService) PendingReview() ([]models.Proposal, error) {
	return s.scribe.PendingReview()
}

func (s *councilService) RecordLaw(
	proposalId string,
	actingProvince string,
) (*scribe.LawRecord, error) {
	return s.scribe.MarkAdded(proposalId, actingProvince)
}

func (s *councilService) LawBook() ([]scribe.LawRecord, error) {
	return s.scribe.LawBook()
}

func (s *councilService) LawRecord(
	legislationNumber string,
) (*scribe.LawRecord, error) {
	payload, err := s.db.GetLawRecord(legislationNumber)
	if err != nil {
		return nil, err
	}
	var record scribe.LawRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf(
			"corrupt law record %s: %w",
			legislationNumber,
			err,
		)
	}
	return &record, nil
}
