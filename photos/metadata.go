package photos

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"
)

// CaptionTimeLayout is how dates are written in photo captions
const CaptionTimeLayout = "January 02 2006, 15:04"

// Metadata is what the bot reads from a photo's EXIF
type Metadata struct {
	Taken     time.Time
	HasTaken  bool
	Latitude  float64
	Longitude float64
	HasGPS    bool
}

// ReadMetadata reads the EXIF date and GPS position of the photo at path. A photo without EXIF,
// or with only some of the fields, is not an error
func ReadMetadata(path string) (Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "os.Open")
	}
	defer file.Close()

	meta := Metadata{}
	x, err := exif.Decode(file)
	if err != nil {
		return meta, nil
	}
	if taken, err := x.DateTime(); err == nil {
		meta.Taken = taken
		meta.HasTaken = true
	}
	if lat, lon, err := x.LatLong(); err == nil {
		meta.Latitude = lat
		meta.Longitude = lon
		meta.HasGPS = true
	}
	return meta, nil
}

// Caption builds the photo caption. The first line is always the relative path, /rotate and
// /delete find the photo again through it
func Caption(rel string, meta Metadata, modified time.Time) string {
	if meta.HasTaken {
		return rel + "\nPhoto taken on: " + meta.Taken.Format(CaptionTimeLayout)
	}
	return rel + "\nFile created on: " + modified.Format(CaptionTimeLayout)
}
