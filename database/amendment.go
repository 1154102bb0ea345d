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

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database/models"
	"gorm.io/gorm"
)

// CreateAmendment persists a new amendment
func (d *Database) CreateAmendment(
	amendment *models.Amendment,
	txn *gorm.DB,
) error {
	db := d.resolveDB(txn)
	if result := db.Create(amendment); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetAmendment retrieves an amendment by its public id
func (d *Database) GetAmendment(
	amendmentId string,
	txn *gorm.DB,
) (*models.Amendment, error) {
	var amendment models.Amendment
	db := d.resolveDB(txn)
	if result := db.Where(
		"amendment_id = ?",
		amendmentId,
	).First(&amendment); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, council.ErrNotFound
		}
		return nil, result.Error
	}
	return &amendment, nil
}

// GetActiveAmendment retrieves the proposal's single active amendment, or
// nil when none exists.
func (d *Database) GetActiveAmendment(
	proposalID uint,
	txn *gorm.DB,
) (*models.Amendment, error) {
	var amendment models.Amendment
	db := d.resolveDB(txn)
	if result := db.Where(
		"proposal_id = ? AND status = ?",
		proposalID,
		string(council.AmendmentActive),
	).First(&amendment); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &amendment, nil
}

// ListAmendments retrieves all amendments for a proposal, oldest first
func (d *Database) ListAmendments(
	proposalID uint,
	txn *gorm.DB,
) ([]models.Amendment, error) {
	var amendments []models.Amendment
	db := d.resolveDB(txn)
	if result := db.Where("proposal_id = ?", proposalID).
		Order("created_at ASC").
		Find(&amendments); result.Error != nil {
		return nil, result.Error
	}
	return amendments, nil
}

// SetAmendmentStatus sets an amendment's status
func (d *Database) SetAmendmentStatus(
	amendmentID uint,
	status string,
	txn *gorm.DB,
) error {
	db := d.resolveDB(txn)
	result := db.Model(&models.Amendment{}).
		Where("id = ?", amendmentID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return council.ErrNotFound
	}
	return nil
}
