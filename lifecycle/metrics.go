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

package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type managerMetrics struct {
	proposalsCreated    *prometheus.CounterVec
	proposalsResolved   *prometheus.CounterVec
	votesCast           *prometheus.CounterVec
	amendmentsSubmitted prometheus.Counter
}

func newManagerMetrics(promRegistry prometheus.Registerer) *managerMetrics {
	promautoFactory := promauto.With(promRegistry)
	return &managerMetrics{
		proposalsCreated: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "witan_proposals_created_total",
				Help: "total proposals created by kind",
			},
			[]string{"kind"},
		),
		proposalsResolved: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "witan_proposals_resolved_total",
				Help: "total proposals resolved by final status",
			},
			[]string{"status"},
		),
		votesCast: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "witan_votes_cast_total",
				Help: "total votes recorded by choice",
			},
			[]string{"choice"},
		),
		amendmentsSubmitted: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "witan_amendments_submitted_total",
				Help: "total amendments submitted",
			},
		),
	}
}
