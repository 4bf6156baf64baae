// Package history remembers where playback of each source stopped, so the next
// session can resume there.
package history

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/cheta-player/cheta/filesystem"
	"github.com/cheta-player/cheta/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ResumeMargin keeps resume points away from both ends of the media: a position this
// close to the start or the end restarts from zero.
const ResumeMargin = 5.0

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved entry keyed by normalized source.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Save records the last committed position of source.
func Save(source string, position, duration float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	k := Key(source)
	saved[k] = &Entry{
		Source:   k,
		Position: position,
		Duration: duration,
		Updated:  time.Now(),
	}

	return cacher.Set(saved)
}

// Lookup returns the entry saved for source, if any.
func Lookup(source string) (mo.Option[*Entry], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[*Entry](), err
	}

	if e, ok := saved[Key(source)]; ok {
		return mo.Some(e), nil
	}
	return mo.None[*Entry](), nil
}

// ResumePoint returns the saved position of source when it lies strictly inside
// (ResumeMargin, duration-ResumeMargin).
func ResumePoint(source string, duration float64) (mo.Option[float64], error) {
	entry, err := Lookup(source)
	if err != nil {
		return mo.None[float64](), err
	}

	e, ok := entry.Get()
	if !ok || !inResumeWindow(e.Position, duration) {
		return mo.None[float64](), nil
	}
	return mo.Some(e.Position), nil
}

// Remove forgets source.
func Remove(source string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, Key(source))
	return cacher.Set(saved)
}

// Recent lists entries, most recently updated first.
func Recent() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sortByUpdated(entries)
	return entries, nil
}

// Key normalizes a source so that equivalent spellings of a local path share an entry.
// URLs and simulated sources are kept as given.
func Key(source string) string {
	s := strings.TrimSpace(source)
	if strings.Contains(s, "://") || strings.HasPrefix(s, "sim:") {
		return s
	}

	if abs, err := filepath.Abs(s); err == nil {
		return abs
	}
	return filepath.Clean(s)
}

func inResumeWindow(position, duration float64) bool {
	return duration > 2*ResumeMargin && position > ResumeMargin && position < duration-ResumeMargin
}
