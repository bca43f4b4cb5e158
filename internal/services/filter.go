package services

import (
	"sort"
	"strconv"
	"strings"

	"freeskill/internal/models"
)

const (
	// MinViewCount is the popularity threshold a search result must reach.
	MinViewCount = 5000
	// MaxResults caps the number of results kept per query.
	MaxResults = 10
)

// FilterAndRank drops videos shorter than a minute or with fewer than MinViewCount
// views, orders the rest by views descending and keeps the top MaxResults.
// The result is never nil.
func FilterAndRank(candidates []models.VideoResult) []models.VideoResult {
	type ranked struct {
		video models.VideoResult
		views int64
	}

	kept := make([]ranked, 0, len(candidates))
	for _, v := range candidates {
		if !atLeastOneMinute(v.Duration) {
			continue
		}
		views, ok := parseViews(v.Views)
		if !ok || views < MinViewCount {
			continue
		}
		kept = append(kept, ranked{video: v, views: views})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].views > kept[j].views
	})
	if len(kept) > MaxResults {
		kept = kept[:MaxResults]
	}

	out := make([]models.VideoResult, 0, len(kept))
	for _, r := range kept {
		out = append(out, r.video)
	}
	return out
}

// atLeastOneMinute reports whether an ISO-8601 duration such as PT1M30S has an hour
// or minute component. Day-only codes like P1D do not count.
func atLeastOneMinute(duration string) bool {
	d := strings.ToUpper(strings.TrimSpace(duration))
	if !strings.HasPrefix(d, "P") {
		return false
	}
	return strings.ContainsAny(d[1:], "HM")
}

func parseViews(views string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(views), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
