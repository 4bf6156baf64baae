package probe

import (
	"errors"
	"strings"

	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/filesystem"
	"github.com/cheta-player/cheta/log"
	"github.com/dhowden/tag"
	"github.com/samber/mo"
)

// Tags is the embedded metadata of a local media file.
type Tags struct {
	Title  string `json:"title,omitempty" jsonschema:"description=Title from the file's tags."`
	Artist string `json:"artist,omitempty" jsonschema:"description=Artist from the file's tags."`
	Album  string `json:"album,omitempty" jsonschema:"description=Album from the file's tags."`
	Format string `json:"format" jsonschema:"description=Tag format, e.g. ID3v2.4 or VORBIS."`
}

// ReadTags reads the tags of a local file. Remote and simulated sources, and files
// without tags, give None.
func ReadTags(source string) mo.Option[Tags] {
	if engine.IsSim(source) || strings.Contains(source, "://") {
		return mo.None[Tags]()
	}

	file, err := filesystem.API().Open(source)
	if err != nil {
		log.Debugf("open %s for tags: %s", source, err)
		return mo.None[Tags]()
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			log.Debugf("read tags of %s: %s", source, err)
		}
		return mo.None[Tags]()
	}

	return mo.Some(Tags{
		Title:  strings.TrimSpace(meta.Title()),
		Artist: strings.TrimSpace(meta.Artist()),
		Album:  strings.TrimSpace(meta.Album()),
		Format: string(meta.Format()),
	})
}
