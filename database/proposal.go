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

package database

import (
	"errors"
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextLegislationNumber allocates the next legislation number from the
// counter row, creating it from the highest existing number when absent.
// Callers must run this inside a transaction alongside proposal creation
// so concurrent submissions cannot share a number.
func (d *Database) NextLegislationNumber(txn *gorm.DB) (string, error) {
	db := d.resolveDB(txn)
	var counter models.LegislationCounter
	if result := db.First(&counter); result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", result.Error
		}
		// Seed the counter from existing proposals so numbering continues
		// from historical records
		var numbers []string
		if result := db.Model(&models.Proposal{}).
			Pluck("legislation_number", &numbers); result.Error != nil {
			return "", result.Error
		}
		maxNumber := 0
		for _, s := range numbers {
			if n := council.ParseLegislationNumber(s); n > maxNumber {
				maxNumber = n
			}
		}
		counter = models.LegislationCounter{NextNumber: maxNumber + 1}
		if result := db.Create(&counter); result.Error != nil {
			return "", result.Error
		}
	}
	allocated := counter.NextNumber
	if result := db.Model(&counter).
		Update("next_number", allocated+1); result.Error != nil {
		return "", result.Error
	}
	return council.FormatLegislationNumber(allocated), nil
}

// CreateProposal persists a new proposal
func (d *Database) CreateProposal(
	proposal *models.Proposal,
	txn *gorm.DB,
) error {
	db := d.resolveDB(txn)
	if result := db.Create(proposal); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetProposal retrieves a proposal by its public id
func (d *Database) GetProposal(
	proposalId string,
	txn *gorm.DB,
) (*models.Proposal, error) {
	var proposal models.Proposal
	db := d.resolveDB(txn)
	if result := db.Where(
		"proposal_id = ?",
		proposalId,
	).First(&proposal); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, council.ErrNotFound
		}
		return nil, result.Error
	}
	return &proposal, nil
}

// ListProposals retrieves all proposals, newest first
func (d *Database) ListProposals(txn *gorm.DB) ([]models.Proposal, error) {
	var proposals []models.Proposal
	db := d.resolveDB(txn)
	if result := db.Order("created_at DESC").Find(&proposals); result.Error != nil {
		return nil, result.Error
	}
	return proposals, nil
}

// ListProposalsByStatus retrieves all proposals with the given status,
// newest first.
func (d *Database) ListProposalsByStatus(
	status string,
	txn *gorm.DB,
) ([]models.Proposal, error) {
	var proposals []models.Proposal
	db := d.resolveDB(txn)
	if result := db.Where("status = ?", status).
		Order("created_at DESC").
		Find(&proposals); result.Error != nil {
		return nil, result.Error
	}
	return proposals, nil
}

// UpdateProposalStatus sets a proposal's lifecycle status
func (d *Database) UpdateProposalStatus(
	proposalID uint,
	status string,
	txn *gorm.DB,
) error {
	db := d.resolveDB(txn)
	result := db.Model(&models.Proposal{}).
		Where("id = ?", proposalID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return council.ErrNotFound
	}
	return nil
}

// MarkLawRecorded marks a proposal as recorded in the law book. The write
// is idempotent: only an unrecorded proposal is updated, and repeat calls
// report false without touching the original record.
func (d *Database) MarkLawRecorded(
	proposalID uint,
	recordedBy string,
	recordedAt time.Time,
	txn *gorm.DB,
) (bool, error) {
	db := d.resolveDB(txn)
	result := db.Model(&models.Proposal{}).
		Where("id = ? AND law_recorded_at IS NULL", proposalID).
		Updates(map[string]any{
			"law_recorded_at": recordedAt,
			"law_recorded_by": recordedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetVote records (or replaces) a province's vote. The unique index over
// proposal, amendment, and province makes the upsert atomic: concurrent
// votes from different provinces land as separate rows, and a revote from
// the same province updates in place.
func (d *Database) SetVote(vote *models.Vote, txn *gorm.DB) error {
	db := d.resolveDB(txn)
	onConflict := clause.OnConflict{
		Columns: []clause.Column{
			{Name: "proposal_id"},
			{Name: "amendment_id"},
			{Name: "province"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"choice",
			"updated_at",
		}),
	}
	if result := db.Clauses(onConflict).Create(vote); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetVotes retrieves all votes for a proposal at a given amendment scope.
// An amendmentID of zero selects votes on the proposal itself.
func (d *Database) GetVotes(
	proposalID uint,
	amendmentID uint,
	txn *gorm.DB,
) ([]models.Vote, error) {
	var votes []models.Vote
	db := d.resolveDB(txn)
	if result := db.Where(
		"proposal_id = ? AND amendment_id = ?",
		proposalID,
		amendmentID,
	).Find(&votes); result.Error != nil {
		return nil, result.Error
	}
	return votes, nil
}

// VoteChoices returns the votes for a proposal scope as a province to
// choice map, ready for tallying.
func (d *Database) VoteChoices(
	proposalID uint,
	amendmentID uint,
	txn *gorm.DB,
) (map[string]council.VoteChoice, error) {
	votes, err := d.GetVotes(proposalID, amendmentID, txn)
	if err != nil {
		return nil, err
	}
	choices := make(map[string]council.VoteChoice, len(votes))
	for _, vote := range votes {
		choices[vote.Province] = council.VoteChoice(vote.Choice)
	}
	return choices, nil
}

// DeleteVotes removes all votes for a proposal at a given amendment scope.
// Used to reset proposal-level votes when an amendment supersedes the text
// being voted on.
func (d *Database) DeleteVotes(
	proposalID uint,
	amendmentID uint,
	txn *gorm.DB,
) error {
	db := d.resolveDB(txn)
	if result := db.Where(
		"proposal_id = ? AND amendment_id = ?",
		proposalID,
		amendmentID,
	).Delete(&models.Vote{}); result.Error != nil {
		return result.Error
	}
	return nil
}
