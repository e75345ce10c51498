package client

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const trackTimeout = 5 * time.Second

// Tracker reports page views. Reporting never blocks the caller and never fails it.
type Tracker struct {
	client *Client
	wg     sync.WaitGroup
}

func NewTracker(client *Client) *Tracker {
	return &Tracker{client: client}
}

type pageView struct {
	Path     string  `json:"path"`
	Referrer *string `json:"referrer"`
}

// TrackPageView posts the view in the background. An empty referrer is sent as null.
func (t *Tracker) TrackPageView(path, referrer string) {
	view := pageView{Path: path}
	if referrer != "" {
		view.Referrer = &referrer
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		err := t.client.do(ctx, http.MethodPost, "/api/analytics/pageview", view, nil)
		if err != nil {
			slog.Debug("page view not recorded", "path", path, "error", err)
		}
	}()
}

// Wait blocks until every pending report finished, e.g. before exit.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
