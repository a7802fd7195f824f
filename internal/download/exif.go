package download

import (
	"errors"
	"os"

	exif "github.com/dsoprea/go-exif/v3"
)

// imageExif reads the EXIF tags of an image file into a flat
// tag-name to formatted-value map. Images carrying no EXIF block
// return nil without an error.
func imageExif(path string) (map[string]string, error) {
	imageData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rawExif, err := exif.SearchAndExtractExif(imageData)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return nil, nil
		}
		return nil, err
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.TagName == "" || entry.Formatted == "" {
			continue
		}
		out[entry.TagName] = entry.Formatted
	}
	return out, nil
}
