package metadata

import "errors"

// fakeFormat is an in-memory FormatHandle.
type fakeFormat struct {
	raw     RawFormat
	streams []*fakeStream
	best    map[MediaKind]int
	tags    []Tag
}

func (f *fakeFormat) Format() RawFormat { return f.raw }
func (f *fakeFormat) Tags() []Tag       { return f.tags }

func (f *fakeFormat) Streams() []StreamHandle {
	out := make([]StreamHandle, len(f.streams))
	for i, s := range f.streams {
		out[i] = s
	}
	return out
}

func (f *fakeFormat) BestStream(kind MediaKind) (StreamHandle, bool) {
	idx, ok := f.best[kind]
	if !ok {
		return nil, false
	}
	return &fakeStream{index: idx}, true
}

type fakeStream struct {
	index       int
	timeBase    Rational
	start       *int64
	duration    *int64
	frames      int64
	disposition Disposition
	frameRate   Rational
	params      *fakeParams
}

func (s *fakeStream) Index() int               { return s.index }
func (s *fakeStream) TimeBase() Rational       { return s.timeBase }
func (s *fakeStream) FrameCount() int64        { return s.frames }
func (s *fakeStream) Disposition() Disposition { return s.disposition }
func (s *fakeStream) Discard() Discard         { return DiscardDefault }
func (s *fakeStream) FrameRate() Rational      { return s.frameRate }
func (s *fakeStream) AvgFrameRate() Rational   { return s.frameRate }

func (s *fakeStream) StartTime() (int64, bool) {
	if s.start == nil {
		return 0, false
	}
	return *s.start, true
}

func (s *fakeStream) Duration() (int64, bool) {
	if s.duration == nil {
		return 0, false
	}
	return *s.duration, true
}

func (s *fakeStream) CodecParameters() CodecParameters {
	if s.params == nil {
		return &fakeParams{kind: KindUnknown}
	}
	return s.params
}

var errNoDecoder = errors.New("no decoder")

type fakeParams struct {
	kind     MediaKind
	codec    *CodecDescriptor
	decErr   error
	audio    fakeAudio
	video    fakeVideo
	subtitle bool
}

func (p *fakeParams) MediaKind() MediaKind { return p.kind }

func (p *fakeParams) AudioDecoder() (AudioDecoder, error) {
	if p.decErr != nil {
		return nil, p.decErr
	}
	a := p.audio
	a.codec = p.codec
	return a, nil
}

func (p *fakeParams) VideoDecoder() (VideoDecoder, error) {
	if p.decErr != nil {
		return nil, p.decErr
	}
	v := p.video
	v.codec = p.codec
	return v, nil
}

func (p *fakeParams) SubtitleDecoder() (SubtitleDecoder, error) {
	if p.decErr != nil {
		return nil, p.decErr
	}
	return fakeDecoder{codec: p.codec}, nil
}

type fakeDecoder struct {
	codec *CodecDescriptor
}

func (d fakeDecoder) Codec() (CodecDescriptor, bool) {
	if d.codec == nil {
		return CodecDescriptor{}, false
	}
	return *d.codec, true
}

type fakeAudio struct {
	codec      *CodecDescriptor
	bitRate    int64
	sampleRate uint32
	channels   uint16
	format     SampleFormat
	layout     ChannelLayout
	delay      int64
	frameStart *int64
}

func (a fakeAudio) Codec() (CodecDescriptor, bool) { return fakeDecoder{codec: a.codec}.Codec() }
func (a fakeAudio) BitRate() int64                 { return a.bitRate }
func (a fakeAudio) MaxBitRate() int64              { return 0 }
func (a fakeAudio) Delay() int64                   { return a.delay }
func (a fakeAudio) SampleRate() uint32             { return a.sampleRate }
func (a fakeAudio) Channels() uint16               { return a.channels }
func (a fakeAudio) SampleFormat() SampleFormat     { return a.format }
func (a fakeAudio) FrameCount() int64              { return 0 }
func (a fakeAudio) FrameAlignment() int64          { return 0 }
func (a fakeAudio) ChannelLayout() ChannelLayout   { return a.layout }

func (a fakeAudio) FrameStart() (int64, bool) {
	if a.frameStart == nil {
		return 0, false
	}
	return *a.frameStart, true
}

type fakeVideo struct {
	codec       *CodecDescriptor
	width       uint32
	height      uint32
	pixelFormat PixelFormat
	bFrames     bool
	aspect      Rational
	transfer    TransferCharacteristic
	refs        int
}

func (v fakeVideo) Codec() (CodecDescriptor, bool)                  { return fakeDecoder{codec: v.codec}.Codec() }
func (v fakeVideo) BitRate() int64                                  { return 0 }
func (v fakeVideo) MaxBitRate() int64                               { return 0 }
func (v fakeVideo) Delay() int64                                    { return 0 }
func (v fakeVideo) Width() uint32                                   { return v.width }
func (v fakeVideo) Height() uint32                                  { return v.height }
func (v fakeVideo) PixelFormat() PixelFormat                        { return v.pixelFormat }
func (v fakeVideo) HasBFrames() bool                                { return v.bFrames }
func (v fakeVideo) AspectRatio() Rational                           { return v.aspect }
func (v fakeVideo) ColorSpace() ColorSpace                          { return "bt709" }
func (v fakeVideo) ColorRange() ColorRange                          { return "tv" }
func (v fakeVideo) ColorPrimaries() ColorPrimaries                  { return "bt709" }
func (v fakeVideo) TransferCharacteristic() TransferCharacteristic { return v.transfer }
func (v fakeVideo) ChromaLocation() ChromaLocation                  { return "left" }
func (v fakeVideo) References() int                                 { return v.refs }
func (v fakeVideo) IntraDCPrecision() uint8                         { return 0 }

func int64p(v int64) *int64 { return &v }

var (
	h264 = &CodecDescriptor{ID: "H264", Name: "h264", Description: "H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10"}
	aac  = &CodecDescriptor{ID: "AAC", Name: "aac", Description: "AAC (Advanced Audio Coding)"}
	srt  = &CodecDescriptor{ID: "SUBRIP", Name: "subrip", Description: "SubRip subtitle"}
)

// movie returns a typical three-stream MP4-family container.
func movie() *fakeFormat {
	return &fakeFormat{
		raw: RawFormat{
			Name:        "mov,mp4,m4a,3gp,3g2,mj2",
			Description: "QuickTime / MOV",
			Extensions:  "mov,mp4,m4a,3gp,3g2,mj2,psp,m4b,ism,ismv,isma,f4v,avif,heic,heif",
			MimeTypes:   "video/quicktime,video/mp4",
		},
		streams: []*fakeStream{
			{
				index:       0,
				timeBase:    NewRational(1, 15360),
				start:       int64p(0),
				duration:    int64p(1843200),
				frames:      2880,
				disposition: DispositionDefault,
				frameRate:   NewRational(24, 1),
				params: &fakeParams{
					kind:  KindVideo,
					codec: h264,
					video: fakeVideo{width: 1920, height: 1080, pixelFormat: "yuv420p", bFrames: true, aspect: NewRational(1, 1), transfer: "bt709", refs: 1},
				},
			},
			{
				index:       1,
				timeBase:    NewRational(1, 48000),
				start:       int64p(0),
				duration:    int64p(5760000),
				disposition: DispositionDefault,
				params: &fakeParams{
					kind:  KindAudio,
					codec: aac,
					audio: fakeAudio{bitRate: 128000, sampleRate: 48000, channels: 2, format: "fltp", layout: "stereo", delay: 1024, frameStart: int64p(0)},
				},
			},
			{
				index:    2,
				timeBase: NewRational(1, 1000),
				params:   &fakeParams{kind: KindSubtitle, codec: srt},
			},
		},
		best: map[MediaKind]int{KindVideo: 0, KindAudio: 1},
		tags: []Tag{{Key: "major_brand", Value: "isom"}, {Key: "encoder", Value: "Lavf60.16.100"}},
	}
}
