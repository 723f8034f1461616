package photos

import (
	"bytes"
	"encoding/binary"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Direction is a quarter turn
type Direction string

// The two directions accepted by /rotate
const (
	Clockwise        Direction = "cw"
	CounterClockwise Direction = "ccw"
)

// JPEGQuality is the quality rotated JPEGs are re-encoded at
const JPEGQuality = 95

// ParseDirection reads a /rotate argument
func ParseDirection(arg string) (Direction, bool) {
	switch Direction(arg) {
	case Clockwise, CounterClockwise:
		return Direction(arg), true
	}
	return "", false
}

// Rotate turns the photo at path a quarter turn and replaces the file. A JPEG keeps its Exif
// segment; other formats are saved without metadata, which is logged
func Rotate(path string, dir Direction, log *logrus.Entry) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return errors.Wrap(err, "imaging.FormatFromFilename")
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "os.ReadFile")
	}
	img, err := imaging.Decode(bytes.NewReader(original))
	if err != nil {
		return errors.Wrap(err, "imaging.Decode")
	}

	var rotated *image.NRGBA
	switch dir {
	case Clockwise:
		rotated = imaging.Rotate270(img)
	case CounterClockwise:
		rotated = imaging.Rotate90(img)
	default:
		return errors.Errorf("unknown direction %q", dir)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, rotated, format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return errors.Wrap(err, "imaging.Encode")
	}
	encoded := out.Bytes()

	if format == imaging.JPEG {
		if exif := ExtractExif(original); exif != nil {
			encoded = InsertExif(encoded, exif)
		}
	} else {
		log.WithFields(logrus.Fields{"path": path, "format": format.String()}).
			Warn("metadata is only kept for JPEG, saving rotated photo without it")
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "os.Stat")
	}
	if err := renameio.WriteFile(path, encoded, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "renameio.WriteFile")
	}
	return nil
}

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1
)

var exifHeader = []byte("Exif\x00\x00")

// ExtractExif returns the whole APP1 Exif segment (marker, length and payload) of a JPEG,
// or nil if there is none
func ExtractExif(jpeg []byte) []byte {
	if len(jpeg) < 4 || jpeg[0] != 0xFF || jpeg[1] != markerSOI {
		return nil
	}
	pos := 2
	for pos+4 <= len(jpeg) {
		if jpeg[pos] != 0xFF {
			return nil
		}
		marker := jpeg[pos+1]
		if marker == 0xFF {
			// fill byte
			pos++
			continue
		}
		if marker == markerSOS || marker == markerEOI {
			return nil
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			pos += 2
			continue
		}
		length := int(binary.BigEndian.Uint16(jpeg[pos+2 : pos+4]))
		end := pos + 2 + length
		if length < 2 || end > len(jpeg) {
			return nil
		}
		if marker == markerAPP1 && bytes.HasPrefix(jpeg[pos+4:end], exifHeader) {
			return append([]byte(nil), jpeg[pos:end]...)
		}
		pos = end
	}
	return nil
}

// InsertExif places an APP1 Exif segment right after the SOI marker of a JPEG
func InsertExif(jpeg []byte, segment []byte) []byte {
	if len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != markerSOI {
		return jpeg
	}
	out := make([]byte, 0, len(jpeg)+len(segment))
	out = append(out, jpeg[:2]...)
	out = append(out, segment...)
	return append(out, jpeg[2:]...)
}
