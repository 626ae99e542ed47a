package metadata

// The interfaces below are what Project needs from a demuxer. Handles are
// live views over library state: they are read, never retained.

// RawFormat is the container descriptor as the demuxer reports it. Name,
// Extensions and MimeTypes are comma-separated lists.
type RawFormat struct {
	Name        string
	Description string
	Extensions  string
	MimeTypes   string
}

// Tag is one container-level metadata entry.
type Tag struct {
	Key   string
	Value string
}

// FormatHandle is an opened container.
type FormatHandle interface {
	Format() RawFormat
	Streams() []StreamHandle
	BestStream(kind MediaKind) (StreamHandle, bool)
	Tags() []Tag
}

// StreamHandle is one stream of an opened container.
type StreamHandle interface {
	Index() int
	TimeBase() Rational
	StartTime() (int64, bool)
	Duration() (int64, bool)
	FrameCount() int64
	Disposition() Disposition
	Discard() Discard
	FrameRate() Rational
	AvgFrameRate() Rational
	CodecParameters() CodecParameters
}

// CodecParameters exposes a stream's codec parameters and the
// kind-specific decoder views over them.
type CodecParameters interface {
	MediaKind() MediaKind
	AudioDecoder() (AudioDecoder, error)
	VideoDecoder() (VideoDecoder, error)
	SubtitleDecoder() (SubtitleDecoder, error)
}

// Decoder is the part every decoder view shares. Codec reports false when
// the codec identity is not available.
type Decoder interface {
	Codec() (CodecDescriptor, bool)
}

// AudioDecoder is the audio view of a stream's codec parameters.
type AudioDecoder interface {
	Decoder
	BitRate() int64
	MaxBitRate() int64
	Delay() int64
	SampleRate() uint32
	Channels() uint16
	SampleFormat() SampleFormat
	FrameCount() int64
	FrameAlignment() int64
	ChannelLayout() ChannelLayout
	FrameStart() (int64, bool)
}

// VideoDecoder is the video view of a stream's codec parameters.
type VideoDecoder interface {
	Decoder
	BitRate() int64
	MaxBitRate() int64
	Delay() int64
	Width() uint32
	Height() uint32
	PixelFormat() PixelFormat
	HasBFrames() bool
	AspectRatio() Rational
	ColorSpace() ColorSpace
	ColorRange() ColorRange
	ColorPrimaries() ColorPrimaries
	TransferCharacteristic() TransferCharacteristic
	ChromaLocation() ChromaLocation
	References() int
	IntraDCPrecision() uint8
}

// SubtitleDecoder is the subtitle view of a stream's codec parameters.
type SubtitleDecoder interface {
	Decoder
}
