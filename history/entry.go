package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/cheta-player/cheta/util"
)

// Entry is the saved playback state of one source.
type Entry struct {
	Source   string    `json:"source"`
	Position float64   `json:"position"`
	Duration float64   `json:"duration"`
	Updated  time.Time `json:"updated"`
}

// Fraction is the watched share of the media in [0, 1].
func (e *Entry) Fraction() float64 {
	if e.Duration <= 0 {
		return 0
	}
	return util.Clamp(e.Position/e.Duration, 0, 1)
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s : %s / %s", e.Source, util.FormatSeconds(e.Position), util.FormatSeconds(e.Duration))
}

func sortByUpdated(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Updated.After(entries[j].Updated)
	})
}
