package image

import (
	"bytes"
	"encoding/binary"
)

const (
	markerSOI  = 0xd8
	markerAPP0 = 0xe0
	markerAPP1 = 0xe1
	markerSOS  = 0xda
)

var exifHead = []byte("Exif\x00\x00")

// ExifSegment returns the raw APP1 Exif segment of a jpeg stream,
// marker and length bytes included, or nil when absent.
func ExifSegment(data []byte) []byte {
	if len(data) < 4 || data[0] != 0xff || data[1] != markerSOI {
		return nil
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xff {
			return nil
		}
		marker := data[i+1]
		if marker == markerSOS {
			return nil
		}
		size := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		end := i + 2 + size
		if size < 2 || end > len(data) {
			return nil
		}
		if marker == markerAPP1 && bytes.HasPrefix(data[i+4:end], exifHead) {
			return data[i:end]
		}
		i = end
	}
	return nil
}

// SpliceExif inserts seg into an encoded jpeg, after the JFIF
// header if present. Returns jpg unchanged when either side is
// not usable.
func SpliceExif(jpg, seg []byte) []byte {
	if len(seg) == 0 || len(jpg) < 4 || jpg[0] != 0xff || jpg[1] != markerSOI {
		return jpg
	}
	at := 2
	for at+4 <= len(jpg) && jpg[at] == 0xff && jpg[at+1] == markerAPP0 {
		size := int(binary.BigEndian.Uint16(jpg[at+2 : at+4]))
		if size < 2 || at+2+size > len(jpg) {
			return jpg
		}
		at += 2 + size
	}
	out := make([]byte, 0, len(jpg)+len(seg))
	out = append(out, jpg[:at]...)
	out = append(out, seg...)
	out = append(out, jpg[at:]...)
	return out
}
