package bot

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wallnutkraken/gophotopoll/photos"
)

// PostRandomPhoto sends a random photo from the watched folders, captioned with its relative
// path and date, followed by a map pin when the photo has a GPS position
func (b *Bot) PostRandomPhoto(store Store) error {
	lib := photos.NewLibrary(store.Folders())
	path, err := lib.Random(b.rng)
	if err != nil {
		return errors.WithMessage(err, "Random")
	}
	rel, ok := lib.Relative(path)
	if !ok {
		return errors.Errorf("%s is outside the watched folders", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "os.Stat")
	}
	meta, err := photos.ReadMetadata(path)
	if err != nil {
		return errors.WithMessage(err, "ReadMetadata")
	}

	log := b.log.WithFields(logrus.Fields{"path": path, "gps": meta.HasGPS})
	log.Info("posting photo")
	if _, err := b.messenger.SendPhoto(path, photos.Caption(rel, meta, info.ModTime())); err != nil {
		return errors.WithMessage(err, "SendPhoto")
	}
	if meta.HasGPS {
		if err := b.messenger.SendVenue(meta.Latitude, meta.Longitude); err != nil {
			return errors.WithMessage(err, "SendVenue")
		}
	}
	return nil
}
