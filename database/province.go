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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetProvince creates or updates a province by name
func (d *Database) SetProvince(
	province *models.Province,
	txn *gorm.DB,
) error {
	db := d.resolveDB(txn)
	onConflict := clause.OnConflict{
		Columns: []clause.Column{
			{Name: "name"},
		},
		// Password hashes are managed separately and survive re-seeding
		DoUpdates: clause.AssignmentColumns([]string{
			"council_type",
			"weight",
		}),
	}
	if result := db.Clauses(onConflict).Create(province); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetProvince retrieves a province by name
func (d *Database) GetProvince(
	name string,
	txn *gorm.DB,
) (*models.Province, error) {
	var province models.Province
	db := d.resolveDB(txn)
	if result := db.Where("name = ?", name).First(&province); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, council.ErrNotFound
		}
		return nil, result.Error
	}
	return &province, nil
}

// ListProvinces retrieves all provinces ordered by weight (descending)
// then name.
func (d *Database) ListProvinces(txn *gorm.DB) ([]models.Province, error) {
	var provinces []models.Province
	db := d.resolveDB(txn)
	if result := db.Order("weight DESC, name ASC").Find(&provinces); result.Error != nil {
		return nil, result.Error
	}
	return provinces, nil
}

// ProvinceWeights returns the vote weight of every voting province. Seats
// with zero weight are excluded.
func (d *Database) ProvinceWeights(
	txn *gorm.DB,
) (map[string]float64, error) {
	provinces, err := d.ListProvinces(txn)
	if err != nil {
		return nil, err
	}
	weights := make(map[string]float64, len(provinces))
	for _, province := range provinces {
		if province.Weight <= 0 {
			continue
		}
		weights[province.Name] = province.Weight
	}
	return weights, nil
}

// SetProvinceCouncilType changes a province's council seat. The seat's
// default weight is applied unless an override weight is given.
func (d *Database) SetProvinceCouncilType(
	name string,
	councilType council.CouncilType,
	weightOverride *float64,
	txn *gorm.DB,
) error {
	if !councilType.Valid() {
		return &council.ValidationError{
			Field:  "councilType",
			Reason: "unknown council type",
		}
	}
	weight := councilType.DefaultWeight()
	if weightOverride != nil {
		weight = *weightOverride
	}
	db := d.resolveDB(txn)
	result := db.Model(&models.Province{}).
		Where("name = ?", name).
		Updates(map[string]any{
			"council_type": string(councilType),
			"weight":       weight,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return council.ErrNotFound
	}
	return nil
}

// SetProvincePassword hashes and stores a province's password and clears
// any pending reset requirement
func (d *Database) SetProvincePassword(
	name string,
	password string,
	txn *gorm.DB,
) error {
	hash, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return err
	}
	db := d.resolveDB(txn)
	result := db.Model(&models.Province{}).
		Where("name = ?", name).
		Updates(map[string]any{
			"password_hash":       hash,
			"must_reset_password": false,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return council.ErrNotFound
	}
	return nil
}

// SeedProvincePassword stores the initial well-known password for a
// province that has never logged in, flagged for reset on first use.
// Provinces that already have a password are left alone.
func (d *Database) SeedProvincePassword(
	name string,
	txn *gorm.DB,
) error {
	province, err := d.GetProvince(name, txn)
	if err != nil {
		return err
	}
	if len(province.PasswordHash) > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword(
		[]byte("password"+name),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return err
	}
	db := d.resolveDB(txn)
	result := db.Model(&models.Province{}).
		Where("name = ?", name).
		Updates(map[string]any{
			"password_hash":       hash,
			"must_reset_password": true,
		})
	return result.Error
}

// AuthenticateProvince verifies a province's password and returns the
// province on success. A missing province and a wrong password are
// indistinguishable to the caller.
func (d *Database) AuthenticateProvince(
	name string,
	password string,
) (*models.Province, error) {
	province, err := d.GetProvince(name, nil)
	if err != nil {
		if errors.Is(err, council.ErrNotFound) {
			return nil, council.ErrPermissionDenied
		}
		return nil, err
	}
	if len(province.PasswordHash) == 0 {
		return nil, council.ErrPermissionDenied
	}
	if err := bcrypt.CompareHashAndPassword(
		province.PasswordHash,
		[]byte(password),
	); err != nil {
		return nil, council.ErrPermissionDenied
	}
	return province, nil
}
