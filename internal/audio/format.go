package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an audio container
type Format string

const (
	FormatUnknown Format = "unknown"
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatFLAC    Format = "flac"
)

// DetectFormat sniffs the file header and falls back to the extension.
// A file whose header contradicts its extension is judged by the header, so a
// text file renamed to .wav is rejected rather than handed to the WAV decoder.
func DetectFormat(filename string) (Format, error) {
	f, err := os.Open(filename)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read header: %w", err)
	}
	header = header[:n]

	if format := sniff(header); format != FormatUnknown {
		return format, nil
	}

	// MP3 files without an ID3 tag may start with padding or junk before the
	// first frame, so the extension is trusted for MP3 only
	if strings.EqualFold(filepath.Ext(filename), ".mp3") && n > 0 {
		return FormatMP3, nil
	}

	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(filename))
}

// sniff identifies a format from the first bytes of a file
func sniff(header []byte) Format {
	switch {
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return FormatWAV
	case len(header) >= 4 && bytes.Equal(header[0:4], []byte("fLaC")):
		return FormatFLAC
	case len(header) >= 3 && bytes.Equal(header[0:3], []byte("ID3")):
		return FormatMP3
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return FormatMP3
	}
	return FormatUnknown
}
