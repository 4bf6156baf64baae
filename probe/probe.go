// Package probe loads a source without the overlay and reports what the engine knows about it.
package probe

import (
	"errors"
	"fmt"
	"time"

	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/history"
	"github.com/cheta-player/cheta/log"
	"github.com/cheta-player/cheta/util"
	"github.com/samber/mo"
)

// ErrNoDuration is returned when the engine never reported a duration within the timeout.
var ErrNoDuration = errors.New("duration not reported")

// pollInterval is how often the duration is asked for while waiting.
const pollInterval = 100 * time.Millisecond

// Output is the probe result printed by `cheta probe`.
type Output struct {
	Source   string   `json:"source" jsonschema:"description=The source as given on the command line."`
	Engine   string   `json:"engine" jsonschema:"description=Name of the engine that loaded the source."`
	Duration float64  `json:"duration" jsonschema:"description=Total length in seconds."`
	Length   string   `json:"length" jsonschema:"description=Total length formatted as m:ss or h:mm:ss."`
	Resume   *float64 `json:"resume,omitempty" jsonschema:"description=Saved position in seconds playback would resume from, if any."`
	Tags     *Tags    `json:"tags,omitempty" jsonschema:"description=Embedded metadata of a local file, if it has any."`
}

// Run loads source with eng, waits up to timeout for a duration, and closes the instance.
func Run(eng engine.Engine, source string, timeout time.Duration) (*Output, error) {
	inst, err := eng.Load(source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := inst.Close(); err != nil {
			log.Warnf("close after probe: %s", err)
		}
	}()

	duration, err := waitForDuration(inst, timeout)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", source, err)
	}

	out := &Output{
		Source:   source,
		Engine:   eng.Name(),
		Duration: duration,
		Length:   util.FormatSeconds(duration),
	}

	resume, err := history.ResumePoint(source, duration)
	if err != nil {
		log.Warnf("read resume point: %s", err)
	}
	if p, ok := resume.Get(); ok {
		out.Resume = &p
	}

	if tags, ok := ReadTags(source).Get(); ok {
		out.Tags = &tags
	}

	return out, nil
}

func waitForDuration(inst engine.Instance, timeout time.Duration) (float64, error) {
	deadline := time.Now().Add(timeout)

	for {
		if d, ok := inst.Duration().Get(); ok {
			return d, nil
		}

		if time.Now().After(deadline) {
			return 0, ErrNoDuration
		}

		select {
		case <-inst.Done():
			return 0, errors.New("engine exited before reporting a duration")
		case <-time.After(pollInterval):
		}
	}
}

// String renders o for humans.
func (o *Output) String() string {
	resume := mo.PointerToOption(o.Resume)
	s := fmt.Sprintf("%s\n  engine  %s\n  length  %s", o.Source, o.Engine, o.Length)
	if p, ok := resume.Get(); ok {
		s += "\n  resume  " + util.FormatSeconds(p)
	}
	if o.Tags != nil {
		if o.Tags.Title != "" {
			s += "\n  title   " + o.Tags.Title
		}
		if o.Tags.Artist != "" {
			s += "\n  artist  " + o.Tags.Artist
		}
		s += "\n  tags    " + o.Tags.Format
	}
	return s
}
