// ABOUTME: History reads cached bandwidth and component scores over a day range.
// ABOUTME: It never computes; days without a cached score are omitted.
package scoring

import (
	"context"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

// HistoryEntry is one day's cached scores.
type HistoryEntry struct {
	Day        string                        `json:"date"`
	Bandwidth  float64                       `json:"bandwidth"`
	Components map[models.MetricKind]float64 `json:"components,omitempty"`
}

// History returns cached entries for the bound user from the earlier of from
// and to through the later, oldest first.
func (a *Aggregator) History(ctx context.Context, from, to time.Time) ([]HistoryEntry, error) {
	userID, err := a.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	loc := a.scorer.fetcher.Location()
	from, to = models.StartOfDay(from, loc), models.StartOfDay(to, loc)
	if to.Before(from) {
		from, to = to, from
	}

	var entries []HistoryEntry
	for d := from; !d.After(to); d = models.AddDays(d, 1) {
		key := d.Format(models.DayLayout)
		score, ok, err := a.scorer.store.Get(ctx, userID, models.KindBandwidth, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		entry := HistoryEntry{Day: key, Bandwidth: score, Components: map[models.MetricKind]float64{}}
		for _, c := range a.components {
			v, ok, err := a.scorer.store.Get(ctx, userID, c.Kind(), key)
			if err != nil {
				return nil, err
			}
			if ok {
				entry.Components[c.Kind()] = v
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
