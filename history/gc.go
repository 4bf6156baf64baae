package history

import (
	"time"

	"github.com/cheta-player/cheta/key"
	"github.com/cheta-player/cheta/log"
	"github.com/spf13/viper"
)

// Prune drops entries not updated since now-maxAge and returns how many were removed.
func Prune(now time.Time, maxAge time.Duration) (int, error) {
	saved, err := Get()
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-maxAge)
	var removed int
	for k, e := range saved {
		if e.Updated.Before(cutoff) {
			delete(saved, k)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}
	return removed, cacher.Set(saved)
}

// CollectGarbage prunes entries older than the history.max_age setting.
// Meant to run in the background at startup.
func CollectGarbage() {
	days := viper.GetInt(key.HistoryMaxAge)
	if days <= 0 {
		return
	}

	removed, err := Prune(time.Now(), time.Duration(days)*24*time.Hour)
	if err != nil {
		log.Warnf("prune history: %s", err)
		return
	}
	if removed > 0 {
		log.Infof("pruned %d stale history entries", removed)
	}
}
