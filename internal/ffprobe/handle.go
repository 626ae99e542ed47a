package ffprobe

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/five82/avmeta/internal/metadata"
)

// ErrNoDecoder is returned by decoder views of streams whose codec ffprobe
// could not identify.
var ErrNoDecoder = errors.New("no decoder for stream codec")

// ErrWrongKind is returned when a decoder view is requested for a stream of
// another media kind.
var ErrWrongKind = errors.New("decoder view does not match stream kind")

// Handle is an opened container as reported by ffprobe. It is immutable
// once built, so it may be shared between goroutines.
type Handle struct {
	path    string
	format  probeFormat
	streams []*stream
	raw     []byte
}

var _ metadata.FormatHandle = (*Handle)(nil)

// Path returns the probed path, or "" for handles built by Parse.
func (h *Handle) Path() string {
	return h.path
}

// RawJSON returns a copy of the captured ffprobe payload.
func (h *Handle) RawJSON() []byte {
	return append([]byte(nil), h.raw...)
}

// Format returns the container descriptor. Extensions and MIME types come
// from the demuxer registry since ffprobe does not print them.
func (h *Handle) Format() metadata.RawFormat {
	info := lookupFormat(h.format.FormatName)
	return metadata.RawFormat{
		Name:        h.format.FormatName,
		Description: h.format.FormatLongName,
		Extensions:  info.extensions,
		MimeTypes:   info.mimeTypes,
	}
}

// Streams returns the streams in container order.
func (h *Handle) Streams() []metadata.StreamHandle {
	out := make([]metadata.StreamHandle, len(h.streams))
	for i, s := range h.streams {
		out[i] = s
	}
	return out
}

// Tags returns the container tags in document order.
func (h *Handle) Tags() []metadata.Tag {
	tags := make([]metadata.Tag, len(h.format.Tags))
	for i, t := range h.format.Tags {
		tags[i] = metadata.Tag{Key: t.key, Value: t.value}
	}
	return tags
}

// DurationSeconds returns the container duration, or 0 when unavailable.
func (h *Handle) DurationSeconds() float64 {
	return parseFloat(h.format.Duration)
}

// SizeBytes returns the reported container size, or 0 when unavailable.
func (h *Handle) SizeBytes() int64 {
	return parseInt(h.format.Size)
}

// stream adapts one ffprobe stream entry.
type stream struct {
	raw         probeStream
	kind        metadata.MediaKind
	disposition metadata.Disposition
}

func newStream(raw probeStream) *stream {
	s := &stream{
		raw:  raw,
		kind: metadata.ParseMediaKind(raw.CodecType),
	}
	for name, set := range raw.Disposition {
		if set == 0 {
			continue
		}
		if flag, ok := metadata.DispositionFromName(name); ok {
			s.disposition |= flag
		}
	}
	return s
}

func (s *stream) Index() int                         { return s.raw.Index }
func (s *stream) TimeBase() metadata.Rational       { return parseRational(s.raw.TimeBase) }
func (s *stream) FrameRate() metadata.Rational      { return parseRational(s.raw.RFrameRate) }
func (s *stream) AvgFrameRate() metadata.Rational   { return parseRational(s.raw.AvgFrameRate) }
func (s *stream) Disposition() metadata.Disposition { return s.disposition }

// Discard is not reported by ffprobe; demuxers open streams at the default level.
func (s *stream) Discard() metadata.Discard { return metadata.DiscardDefault }

func (s *stream) FrameCount() int64 {
	return parseInt(s.raw.NbFrames)
}

func (s *stream) StartTime() (int64, bool) {
	if s.raw.StartPTS == nil {
		return 0, false
	}
	return *s.raw.StartPTS, true
}

func (s *stream) Duration() (int64, bool) {
	if s.raw.DurationTS == nil {
		return 0, false
	}
	return *s.raw.DurationTS, true
}

func (s *stream) CodecParameters() metadata.CodecParameters {
	return params{s}
}

// resolvable reports whether ffprobe identified the stream's codec.
func (s *stream) resolvable() bool {
	name := strings.TrimSpace(s.raw.CodecName)
	return name != "" && name != "none"
}

func (s *stream) codec() (metadata.CodecDescriptor, bool) {
	if !s.resolvable() {
		return metadata.CodecDescriptor{}, false
	}
	return metadata.CodecDescriptor{
		ID:          metadata.CodecID(strings.ToUpper(s.raw.CodecName)),
		Name:        s.raw.CodecName,
		Description: s.raw.CodecLongName,
	}, true
}

func (s *stream) view(kind metadata.MediaKind) error {
	if s.kind != kind {
		return fmt.Errorf("%w: %s stream", ErrWrongKind, s.kind)
	}
	if !s.resolvable() {
		return fmt.Errorf("%w %q", ErrNoDecoder, s.raw.CodecName)
	}
	return nil
}

type params struct {
	s *stream
}

func (p params) MediaKind() metadata.MediaKind { return p.s.kind }

func (p params) AudioDecoder() (metadata.AudioDecoder, error) {
	if err := p.s.view(metadata.KindAudio); err != nil {
		return nil, err
	}
	return audioView{p.s}, nil
}

func (p params) VideoDecoder() (metadata.VideoDecoder, error) {
	if err := p.s.view(metadata.KindVideo); err != nil {
		return nil, err
	}
	return videoView{p.s}, nil
}

func (p params) SubtitleDecoder() (metadata.SubtitleDecoder, error) {
	if err := p.s.view(metadata.KindSubtitle); err != nil {
		return nil, err
	}
	return subtitleView{p.s}, nil
}

type subtitleView struct {
	s *stream
}

func (v subtitleView) Codec() (metadata.CodecDescriptor, bool) { return v.s.codec() }

type audioView struct {
	s *stream
}

func (v audioView) Codec() (metadata.CodecDescriptor, bool) { return v.s.codec() }
func (v audioView) BitRate() int64                          { return parseInt(v.s.raw.BitRate) }
func (v audioView) MaxBitRate() int64                       { return parseInt(v.s.raw.MaxBitRate) }
func (v audioView) Delay() int64                            { return v.s.raw.InitialPadding }
func (v audioView) SampleFormat() metadata.SampleFormat     { return metadata.SampleFormat(v.s.raw.SampleFmt) }
func (v audioView) ChannelLayout() metadata.ChannelLayout   { return metadata.ChannelLayout(v.s.raw.ChannelLayout) }

// FrameCount and FrameAlignment are codec-internal fields ffprobe does not print.
func (v audioView) FrameCount() int64     { return 0 }
func (v audioView) FrameAlignment() int64 { return 0 }

func (v audioView) FrameStart() (int64, bool) { return 0, false }

func (v audioView) SampleRate() uint32 {
	rate := parseInt(v.s.raw.SampleRate)
	if rate < 0 || rate > math.MaxUint32 {
		return 0
	}
	return uint32(rate)
}

func (v audioView) Channels() uint16 {
	if v.s.raw.Channels < 0 || v.s.raw.Channels > math.MaxUint16 {
		return 0
	}
	return uint16(v.s.raw.Channels)
}

type videoView struct {
	s *stream
}

func (v videoView) Codec() (metadata.CodecDescriptor, bool) { return v.s.codec() }
func (v videoView) BitRate() int64                          { return parseInt(v.s.raw.BitRate) }
func (v videoView) MaxBitRate() int64                       { return parseInt(v.s.raw.MaxBitRate) }
func (v videoView) Delay() int64                            { return int64(v.s.raw.HasBFrames) }
func (v videoView) Width() uint32                           { return clampUint32(v.s.raw.Width) }
func (v videoView) Height() uint32                          { return clampUint32(v.s.raw.Height) }
func (v videoView) PixelFormat() metadata.PixelFormat       { return metadata.PixelFormat(v.s.raw.PixFmt) }
func (v videoView) HasBFrames() bool                        { return v.s.raw.HasBFrames > 0 }
func (v videoView) AspectRatio() metadata.Rational          { return parseRational(v.s.raw.SampleAspectRatio) }
func (v videoView) ColorSpace() metadata.ColorSpace         { return metadata.ColorSpace(v.s.raw.ColorSpace) }
func (v videoView) ColorRange() metadata.ColorRange         { return metadata.ColorRange(v.s.raw.ColorRange) }
func (v videoView) ColorPrimaries() metadata.ColorPrimaries { return metadata.ColorPrimaries(v.s.raw.ColorPrimaries) }
func (v videoView) References() int                         { return v.s.raw.Refs }
func (v videoView) IntraDCPrecision() uint8                 { return 0 }

func (v videoView) TransferCharacteristic() metadata.TransferCharacteristic {
	return metadata.TransferCharacteristic(v.s.raw.ColorTransfer)
}

func (v videoView) ChromaLocation() metadata.ChromaLocation {
	return metadata.ChromaLocation(v.s.raw.ChromaLocation)
}

// parseRational is lenient: ffprobe prints "0/0" or "N/A" for unknown values.
func parseRational(value string) metadata.Rational {
	r, err := metadata.ParseRational(value)
	if err != nil {
		return metadata.Rational{}
	}
	return r
}

func parseInt(value string) int64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

func clampUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
