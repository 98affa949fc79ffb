package player

import (
	"fmt"

	"github.com/samber/mo"
)

// TrackBundle is one karaoke entry: the media mpv plays plus its sidecar tracks.
// A bundle is never modified after it has been submitted.
type TrackBundle struct {
	Video        mo.Option[string]
	Instrumental mo.Option[string]
	Subtitle     mo.Option[string]
	Title        string
}

// NewTrackBundle builds a bundle from possibly empty strings, treating "" as absent.
func NewTrackBundle(video, instrumental, subtitle, title string) TrackBundle {
	return TrackBundle{
		Video:        mo.EmptyableToOption(video),
		Instrumental: mo.EmptyableToOption(instrumental),
		Subtitle:     mo.EmptyableToOption(subtitle),
		Title:        title,
	}
}

// Validate reports ErrEmptyBundle when there is nothing to play.
func (b TrackBundle) Validate() error {
	if b.Video.IsAbsent() && b.Instrumental.IsAbsent() {
		return ErrEmptyBundle
	}
	return nil
}

// Primary returns the file loaded as the playlist item.
// Video wins; a bundle without video plays its instrumental directly.
func (b TrackBundle) Primary() string {
	if video, ok := b.Video.Get(); ok {
		return video
	}
	return b.Instrumental.OrEmpty()
}

// sidecars returns the tracks attached to the item once mpv has loaded it,
// in the order they must be sent.
func (b TrackBundle) sidecars() []RunCommand {
	var cmds []RunCommand

	if b.Video.IsPresent() {
		if inst, ok := b.Instrumental.Get(); ok {
			cmds = append(cmds, AudioAdd(inst))
		}
	}

	if sub, ok := b.Subtitle.Get(); ok {
		cmds = append(cmds, SubAdd(sub))
	}

	return cmds
}

// String returns the title, or the primary file when the bundle has no title.
func (b TrackBundle) String() string {
	if b.Title != "" {
		return b.Title
	}
	return fmt.Sprintf("%q", b.Primary())
}
