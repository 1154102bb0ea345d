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
	"testing"
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	return db
}

func testProposal(proposalId string, legislationNumber string) *models.Proposal {
	return &models.Proposal{
		ProposalId:        proposalId,
		LegislationNumber: legislationNumber,
		Kind:              string(council.KindLaw),
		Title:             "Road Maintenance Act",
		Synopsis:          "Fund repair of the kingdom's roads",
		Purpose:           "Fund repair of the kingdom's roads",
		WhereasStatements: []string{"the roads have fallen into disrepair"},
		Changes:           "A road levy of one shilling is established.",
		Province:          "Hovalen",
		Status:            string(council.StatusActive),
		ExpiryDate:        time.Now().Add(council.VotingPeriod),
	}
}

func TestProvinceRoundTrip(t *testing.T) {
	db := setupTestDatabase(t)

	err := db.SetProvince(&models.Province{
		Name:        "Hovalen",
		CouncilType: string(council.CouncilTypeUpperCouncil),
		Weight:      1.5,
	}, nil)
	require.NoError(t, err)

	province, err := db.GetProvince("Hovalen", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hovalen", province.Name)
	assert.Equal(t, 1.5, province.Weight)

	// Upsert updates in place
	err = db.SetProvince(&models.Province{
		Name:        "Hovalen",
		CouncilType: string(council.CouncilTypeUpperCouncil),
		Weight:      2,
	}, nil)
	require.NoError(t, err)
	province, err = db.GetProvince("Hovalen", nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2), province.Weight)

	_, err = db.GetProvince("Nowhere", nil)
	assert.ErrorIs(t, err, council.ErrNotFound)
}

func TestProvinceWeightsExcludeNonVoting(t *testing.T) {
	db := setupTestDatabase(t)

	require.NoError(t, db.SetProvince(&models.Province{
		Name:        "Capital",
		CouncilType: string(council.CouncilTypeKing),
		Weight:      2,
	}, nil))
	require.NoError(t, db.SetProvince(&models.Province{
		Name:        "Administrator",
		CouncilType: string(council.CouncilTypeAdmin),
		Weight:      0,
	}, nil))

	weights, err := db.ProvinceWeights(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Capital": 2}, weights)
}

func TestProvinceAuthentication(t *testing.T) {
	db := setupTestDatabase(t)

	require.NoError(t, db.SetProvince(&models.Province{
		Name:        "Rilra",
		CouncilType: string(council.CouncilTypeLowerCouncil),
		Weight:      1,
	}, nil))

	// No password set yet
	_, err := db.AuthenticateProvince("Rilra", "hunter2")
	assert.ErrorIs(t, err, council.ErrPermissionDenied)

	require.NoError(t, db.SetProvincePassword("Rilra", "hunter2", nil))

	province, err := db.AuthenticateProvince("Rilra", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Rilra", province.Name)

	_, err = db.AuthenticateProvince("Rilra", "wrong")
	assert.ErrorIs(t, err, council.ErrPermissionDenied)
	_, err = db.AuthenticateProvince("Nowhere", "hunter2")
	assert.ErrorIs(t, err, council.ErrPermissionDenied)

	// Re-seeding must not clear the stored hash
	require.NoError(t, db.SetProvince(&models.Province{
		Name:        "Rilra",
		CouncilType: string(council.CouncilTypeLowerCouncil),
		Weight:      1,
	}, nil))
	_, err = db.AuthenticateProvince("Rilra", "hunter2")
	require.NoError(t, err)
}

func TestSeedProvincePassword(t *testing.T) {
	db := setupTestDatabase(t)

	require.NoError(t, db.SetProvince(&models.Province{
		Name:        "Guzia",
		CouncilType: string(council.CouncilTypeTerritory),
		Weight:      0.5,
	}, nil))

	require.NoError(t, db.SeedProvincePassword("Guzia", nil))

	province, err := db.AuthenticateProvince("Guzia", "passwordGuzia")
	require.NoError(t, err)
	assert.True(t, province.MustResetPassword)

	// Choosing a real password clears the reset flag and the seeded
	// password stops working
	require.NoError(t, db.SetProvincePassword("Guzia", "hunter2", nil))
	province, err = db.AuthenticateProvince("Guzia", "hunter2")
	require.NoError(t, err)
	assert.False(t, province.MustResetPassword)
	_, err = db.AuthenticateProvince("Guzia", "passwordGuzia")
	assert.ErrorIs(t, err, council.ErrPermissionDenied)

	// Re-seeding after that is a no-op
	require.NoError(t, db.SeedProvincePassword("Guzia", nil))
	_, err = db.AuthenticateProvince("Guzia", "hunter2")
	require.NoError(t, err)

	require.ErrorIs(
		t,
		db.SeedProvincePassword("Nowhere", nil),
		council.ErrNotFound,
	)
}

func TestSetProvinceCouncilType(t *testing.T) {
	db := setupTestDatabase(t)

	require.NoError(t, db.SetProvince(&models.Province{
		Name:        "Astaria",
		CouncilType: string(council.CouncilTypeTerritory),
		Weight:      0.5,
	}, nil))

	// Weight follows the new seat type by default
	require.NoError(t, db.SetProvinceCouncilType(
		"Astaria",
		council.CouncilTypeLowerCouncil,
		nil,
		nil,
	))
	province, err := db.GetProvince("Astaria", nil)
	require.NoError(t, err)
	assert.Equal(
		t,
		string(council.CouncilTypeLowerCouncil),
		province.CouncilType,
	)
	assert.Equal(t, float64(1), province.Weight)

	// Explicit weight override wins
	override := 1.25
	require.NoError(t, db.SetProvinceCouncilType(
		"Astaria",
		council.CouncilTypeUpperCouncil,
		&override,
		nil,
	))
	province, err = db.GetProvince("Astaria", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.25, province.Weight)

	var validationErr *council.ValidationError
	err = db.SetProvinceCouncilType("Astaria", "Margrave", nil, nil)
	assert.ErrorAs(t, err, &validationErr)

	err = db.SetProvinceCouncilType(
		"Nowhere",
		council.CouncilTypeLowerCouncil,
		nil,
		nil,
	)
	assert.ErrorIs(t, err, council.ErrNotFound)
}

func TestNextLegislationNumber(t *testing.T) {
	db := setupTestDatabase(t)

	number, err := db.NextLegislationNumber(nil)
	require.NoError(t, err)
	assert.Equal(t, "001", number)

	number, err = db.NextLegislationNumber(nil)
	require.NoError(t, err)
	assert.Equal(t, "002", number)
}

func TestNextLegislationNumberSeedsFromExisting(t *testing.T) {
	db := setupTestDatabase(t)

	// Historical records without a counter row
	require.NoError(
		t,
		db.CreateProposal(testProposal("p-1", "041"), nil),
	)
	require.NoError(
		t,
		db.CreateProposal(testProposal("p-2", "007"), nil),
	)

	number, err := db.NextLegislationNumber(nil)
	require.NoError(t, err)
	assert.Equal(t, "042", number)
}

func TestProposalRoundTrip(t *testing.T) {
	db := setupTestDatabase(t)

	require.NoError(
		t,
		db.CreateProposal(testProposal("p-1", "001"), nil),
	)

	proposal, err := db.GetProposal("p-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "001", proposal.LegislationNumber)
	assert.Equal(
		t,
		[]string{"the roads have fallen into disrepair"},
		proposal.WhereasStatements,
	)

	_, err = db.GetProposal("missing", nil)
	assert.ErrorIs(t, err, council.ErrNotFound)

	require.NoError(t, db.UpdateProposalStatus(
		proposal.ID,
		string(council.StatusPassed),
		nil,
	))
	proposal, err = db.GetProposal("p-1", nil)
	require.NoError(t, err)
	assert.Equal(t, string(council.StatusPassed), proposal.Status)

	active, err := db.ListProposalsByStatus(
		string(council.StatusActive),
		nil,
	)
	require.NoError(t, err)
	assert.Empty(t, active)
	passed, err := db.ListProposalsByStatus(
		string(council.StatusPassed),
		nil,
	)
	require.NoError(t, err)
	assert.Len(t, passed, 1)
}

func TestSetVoteUpsert(t *testing.T) {
	db := setupTestDatabase(t)

	require.NoError(
		t,
		db.CreateProposal(testProposal("p-1", "001"), nil),
	)
	proposal, err := db.GetProposal("p-1", nil)
	require.NoError(t, err)

	require.NoError(t, db.SetVote(&models.Vote{
		ProposalID: proposal.ID,
		Province:   "Hovalen",
		Choice:     string(council.VoteAye),
	}, nil))
	// Revote replaces the earlier row
	require.NoError(t, db.SetVote(&models.Vote{
		ProposalID: proposal.ID,
		Province:   "Hovalen",
		Choice:     string(council.VoteNay),
	}, nil))
	require.NoError(t, db.SetVote(&models.Vote{
		ProposalID: proposal.ID,
		Province:   "Rilra",
		Choice:     string(council.VoteAye),
	}, nil))

	votes, err := db.GetVotes(proposal.ID, 0, nil)
	require.NoError(t, err)
	assert.Len(t, votes, 2)

	choices, err := db.VoteChoices(proposal.ID, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]council.VoteChoice{
		"Hovalen": council.VoteNay,
		"Rilra":   council.VoteAye,
	}, choices)

	require.NoError(t, db.DeleteVotes(proposal.ID, 0, nil))
	votes, err = db.GetVotes(proposal.ID, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestAmendmentLifecycle(t *testing.T) {
	db := setupTestDatabase(t)

	require.NoError(
		t,
		db.CreateProposal(testProposal("p-1", "001"), nil),
	)
	proposal, err := db.GetProposal("p-1", nil)
	require.NoError(t, err)

	// No active amendment yet
	active, err := db.GetActiveAmendment(proposal.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, active)

	first := &models.Amendment{
		AmendmentId: "a-1",
		ProposalID:  proposal.ID,
		Depth:       1,
		Province:    "Rilra",
		AmendedText: "A road levy of two shillings is established.",
		Status:      string(council.AmendmentActive),
		ExpiryDate:  time.Now().Add(council.AmendmentVotingPeriod),
	}
	require.NoError(t, db.CreateAmendment(first, nil))

	active, err = db.GetActiveAmendment(proposal.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "a-1", active.AmendmentId)

	// Supersede with a second amendment
	require.NoError(t, db.SetAmendmentStatus(
		first.ID,
		string(council.AmendmentSuperseded),
		nil,
	))
	second := &models.Amendment{
		AmendmentId: "a-2",
		ProposalID:  proposal.ID,
		Depth:       1,
		Province:    "Puron",
		AmendedText: "A road levy of three shillings is established.",
		Status:      string(council.AmendmentActive),
		ExpiryDate:  time.Now().Add(council.AmendmentVotingPeriod),
	}
	require.NoError(t, db.CreateAmendment(second, nil))

	active, err = db.GetActiveAmendment(proposal.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "a-2", active.AmendmentId)

	amendments, err := db.ListAmendments(proposal.ID, nil)
	require.NoError(t, err)
	assert.Len(t, amendments, 2)
}

func TestMarkLawRecordedIdempotent(t *testing.T) {
	db := setupTestDatabase(t)

	require.NoError(
		t,
		db.CreateProposal(testProposal("p-1", "001"), nil),
	)
	proposal, err := db.GetProposal("p-1", nil)
	require.NoError(t, err)

	firstAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	applied, err := db.MarkLawRecorded(proposal.ID, "Kobat", firstAt, nil)
	require.NoError(t, err)
	assert.True(t, applied)

	// Second call must not overwrite the original record
	applied, err = db.MarkLawRecorded(
		proposal.ID,
		"Capital",
		firstAt.Add(time.Hour),
		nil,
	)
	require.NoError(t, err)
	assert.False(t, applied)

	proposal, err = db.GetProposal("p-1", nil)
	require.NoError(t, err)
	require.NotNil(t, proposal.LawRecordedAt)
	assert.Equal(t, "Kobat", proposal.LawRecordedBy)
	assert.WithinDuration(t, firstAt, *proposal.LawRecordedAt, time.Second)
}

func TestLawBookRoundTrip(t *testing.T) {
	db := setupTestDatabase(t)

	_, err := db.GetLawRecord("001")
	assert.ErrorIs(t, err, council.ErrNotFound)

	require.NoError(t, db.PutLawRecord("002", []byte("second law")))
	require.NoError(t, db.PutLawRecord("001", []byte("first law")))

	payload, err := db.GetLawRecord("001")
	require.NoError(t, err)
	assert.Equal(t, []byte("first law"), payload)

	numbers, err := db.ListLawRecordNumbers()
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, numbers)
}
