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
	"testing"

	"github.com/blinklabs-io/witan/api"
	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/lifecycle"
	"github.com/blinklabs-io/witan/scribe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time check that the adapter satisfies the API interface
var _ api.CouncilService = (*councilService)(nil)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(
		t,
		council.DefaultMaxAmendmentDepth,
		cfg.maxAmendmentDepth,
	)
	assert.Equal(t, ":3000", cfg.apiListenAddress)
	assert.Len(t, cfg.provinces, 12)
	assert.NotNil(t, cfg.logger)
}

func TestNewConfigValidation(t *testing.T) {
	_, err := New(NewConfig(
		WithMaxAmendmentDepth(0),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max amendment depth")

	_, err = New(NewConfig(
		WithProvinces(nil),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no provinces")

	_, err = New(NewConfig(
		WithProvinces([]council.ProvinceSeed{
			{Name: "Hovalen", CouncilType: "Margrave"},
		}),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid council type")

	_, err = New(NewConfig())
	require.NoError(t, err)
}

func setupTestService(t *testing.T) *councilService {
	t.Helper()
	db, err := database.New(database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	for _, seed := range council.DefaultProvinces() {
		err := db.SetProvince(
			&models.Province{
				Name:        seed.Name,
				CouncilType: string(seed.CouncilType),
				Weight:      seed.Weight,
			},
			nil,
		)
		require.NoError(t, err)
	}
	manager := lifecycle.New(lifecycle.Config{
		Database: db,
	})
	queue := scribe.New(scribe.Config{
		Database: db,
	})
	return &councilService{
		db:        db,
		lifecycle: manager,
		scribe:    queue,
	}
}

func TestCouncilServiceVotingScope(t *testing.T) {
	service := setupTestService(t)

	proposal, err := service.CreateLaw(
		"Hovalen",
		council.LawDraft{
			Title:             "Harbor Dredging Act",
			Purpose:           "Dredge the southern harbor",
			WhereasStatements: []string{"silt blocks the harbor"},
			Changes:           "Dredging is funded",
		},
	)
	require.NoError(t, err)

	voted, err := service.HasVoted(proposal.ProposalId, "Rilra")
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = service.CastVote(
		proposal.ProposalId,
		"Rilra",
		council.VoteAye,
	)
	require.NoError(t, err)

	voted, err = service.HasVoted(proposal.ProposalId, "Rilra")
	require.NoError(t, err)
	assert.True(t, voted)

	counts, err := service.Tally(proposal.ProposalId)
	require.NoError(t, err)
	assert.Equal(t, float64(1), counts.Aye)

	// An amendment moves the voting scope, so prior proposal-level
	// votes no longer show up
	amendment, err := service.SubmitAmendment(
		proposal.ProposalId,
		"Puron",
		lifecycle.AmendmentContent{
			Text: "Dredging is funded next year",
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, amendment.Depth)

	voted, err = service.HasVoted(proposal.ProposalId, "Rilra")
	require.NoError(t, err)
	assert.False(t, voted)

	counts, err = service.Tally(proposal.ProposalId)
	require.NoError(t, err)
	assert.Equal(t, float64(0), counts.Total())

	amendments, err := service.ListAmendments(proposal.ProposalId)
	require.NoError(t, err)
	require.Len(t, amendments, 1)
	assert.Equal(
		t,
		amendment.AmendmentId,
		amendments[0].AmendmentId,
	)
}

func TestCouncilServiceLawRecordNotFound(t *testing.T) {
	service := setupTestService(t)

	_, err := service.LawRecord("099")
	assert.ErrorIs(t, err, council.ErrNotFound)
}
