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
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/blinklabs-io/witan/event"
)

const (
	watchBufferSize        = 64
	watchKeepaliveInterval = 30 * time.Second
)

// watchEventTypes lists the governance events forwarded to watch
// streams.
var watchEventTypes = []event.EventType{
	event.ProposalCreatedEventType,
	event.ProposalResolvedEventType,
	event.VoteCastEventType,
	event.AmendmentSubmittedEventType,
	event.LawRecordedEventType,
}

// sseSubscriber adapts an SSE stream to the event bus Subscriber
// interface. Delivery is non-blocking: a client that cannot keep up
// loses events rather than stalling publishers.
type sseSubscriber struct {
	ch        chan event.Event
	closeOnce sync.Once
}

func newSseSubscriber() *sseSubscriber {
	return &sseSubscriber{
		ch: make(chan event.Event, watchBufferSize),
	}
}

func (s *sseSubscriber) Deliver(evt event.Event) (err error) {
	// The same subscriber is registered for several event types, so a
	// concurrent Unsubscribe can close the channel mid-send
	defer func() {
		if recover() != nil {
			err = nil
		}
	}()
	select {
	case s.ch <- evt:
	default:
		// Slow client, drop the event
	}
	return nil
}

func (s *sseSubscriber) Close() {
	s.closeOnce.Do(func() {
		close(s.ch)
	})
}

// handleWatch handles GET /api/v1/watch and streams governance events
// to the client as server-sent events.
func (a *Api) handleWatch(
	w http.ResponseWriter,
	r *http.Request,
) {
	if a.events == nil {
		writeError(
			w,
			http.StatusServiceUnavailable,
			"Service Unavailable",
			"event streaming is not enabled",
		)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(
			w,
			http.StatusInternalServerError,
			"Internal Server Error",
			"streaming unsupported",
		)
		return
	}

	sub := newSseSubscriber()
	subIds := make(
		map[event.EventType]event.EventSubscriberId,
		len(watchEventTypes),
	)
	for _, eventType := range watchEventTypes {
		subIds[eventType] = a.events.RegisterSubscriber(
			eventType,
			sub,
		)
	}
	defer func() {
		for eventType, subId := range subIds {
			a.events.Unsubscribe(eventType, subId)
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	a.logger.Debug(
		"watch stream opened",
		"remote_addr", r.RemoteAddr,
	)

	keepalive := time.NewTicker(watchKeepaliveInterval)
	defer keepalive.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-sub.ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(evt.Data)
			if err != nil {
				a.logger.Error(
					"failed to marshal watch event",
					"type", evt.Type,
					"error", err,
				)
				continue
			}
			fmt.Fprintf(
				w,
				"event: %s\ndata: %s\n\n",
				evt.Type,
				payload,
			)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
