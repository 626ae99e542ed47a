// Package ffprobe opens media containers by running the ffprobe binary and
// exposes the result as a metadata.FormatHandle.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	errs "github.com/five82/avmeta/internal/errors"
)

// DefaultBinary is the executable used when no path is configured.
const DefaultBinary = "ffprobe"

// probeOutput represents the JSON output from ffprobe.
type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Filename       string      `json:"filename"`
	NbStreams      int         `json:"nb_streams"`
	FormatName     string      `json:"format_name"`
	FormatLongName string      `json:"format_long_name"`
	Duration       string      `json:"duration"`
	Size           string      `json:"size"`
	BitRate        string      `json:"bit_rate"`
	Tags           orderedTags `json:"tags"`
}

type probeStream struct {
	Index             int            `json:"index"`
	CodecName         string         `json:"codec_name"`
	CodecLongName     string         `json:"codec_long_name"`
	CodecType         string         `json:"codec_type"`
	TimeBase          string         `json:"time_base"`
	RFrameRate        string         `json:"r_frame_rate"`
	AvgFrameRate      string         `json:"avg_frame_rate"`
	SampleAspectRatio string         `json:"sample_aspect_ratio"`
	StartPTS          *int64         `json:"start_pts"`
	DurationTS        *int64         `json:"duration_ts"`
	NbFrames          string         `json:"nb_frames"`
	Disposition       map[string]int `json:"disposition"`
	BitRate           string         `json:"bit_rate"`
	MaxBitRate        string         `json:"max_bit_rate"`

	SampleRate     string `json:"sample_rate"`
	SampleFmt      string `json:"sample_fmt"`
	Channels       int    `json:"channels"`
	ChannelLayout  string `json:"channel_layout"`
	InitialPadding int64  `json:"initial_padding"`

	Width          int    `json:"width"`
	Height         int    `json:"height"`
	PixFmt         string `json:"pix_fmt"`
	HasBFrames     int    `json:"has_b_frames"`
	Refs           int    `json:"refs"`
	ColorSpace     string `json:"color_space"`
	ColorRange     string `json:"color_range"`
	ColorPrimaries string `json:"color_primaries"`
	ColorTransfer  string `json:"color_transfer"`
	ChromaLocation string `json:"chroma_location"`
}

// orderedTags keeps tag entries in document order, repeats included.
type orderedTags []tagEntry

type tagEntry struct {
	key   string
	value string
}

// UnmarshalJSON walks the object token by token so order survives decoding.
func (t *orderedTags) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tags: expected object, got %v", tok)
	}

	var out orderedTags
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tags: unexpected key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("tags: value for %q: %w", key, err)
		}
		out = append(out, tagEntry{key: key, value: tagString(value)})
	}
	*t = out
	return nil
}

func tagString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// waitDelay bounds how long Open waits for output pipes after ffprobe is
// killed.
const waitDelay = 2 * time.Second

// Open runs ffprobe against path and returns a handle over its report.
// An empty binary uses DefaultBinary.
func Open(ctx context.Context, binary, path string) (*Handle, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errs.NewPathError("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-hide_banner",
		"-show_format",
		"-show_streams",
		"-of", "json",
		"--", path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, errs.NewCancelledError(ctx.Err())
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errs.NewOpenError(path, ctxErr)
		}
		return nil, errs.NewOpenError(path, errs.WrapExecError(binary, err, strings.TrimSpace(stderr.String())))
	}

	h, err := Parse(stdout.Bytes())
	if err != nil {
		return nil, errs.NewOpenError(path, err)
	}
	h.path = path
	return h, nil
}

// Parse builds a handle from captured ffprobe JSON.
func Parse(data []byte) (*Handle, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errs.NewJSONParseError("empty ffprobe output", nil)
	}

	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errs.NewJSONParseError("failed to parse ffprobe output", err)
	}

	h := &Handle{
		format: out.Format,
		raw:    append([]byte(nil), data...),
	}
	h.streams = make([]*stream, len(out.Streams))
	for i := range out.Streams {
		h.streams[i] = newStream(out.Streams[i])
	}
	return h, nil
}
