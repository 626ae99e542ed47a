// Package metadata turns a live demuxer handle into an owned, serializable
// description of a media container.
//
// The entry point is Project, which walks a FormatHandle once and returns a
// Snapshot. A Snapshot holds no reference to the handle, so it outlives the
// handle and can be cached, logged or sent elsewhere. Projection is
// all-or-nothing: when any stream fails to resolve, no Snapshot is returned.
package metadata

// SchemaVersion is the version of the serialized Snapshot layout.
const SchemaVersion = 1

// Snapshot is the projected metadata of one container. It is never mutated
// after Project returns it.
type Snapshot struct {
	Version int               `json:"version"`
	Format  FormatDescriptor  `json:"format"`
	Best    Best              `json:"best"`
	Streams []Stream          `json:"streams"`
	Details map[string]string `json:"details"`
}

// FormatDescriptor describes the container format.
type FormatDescriptor struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	Extensions  []string `json:"extensions,omitempty"`
	MimeTypes   []string `json:"mime_types,omitempty"`
}

// Best holds the index of the preferred stream for each media kind.
type Best struct {
	Video    *int `json:"video,omitempty"`
	Audio    *int `json:"audio,omitempty"`
	Subtitle *int `json:"subtitle,omitempty"`
}

// Get returns the best index for kind.
func (b Best) Get(kind MediaKind) (int, bool) {
	var p *int
	switch kind {
	case KindVideo:
		p = b.Video
	case KindAudio:
		p = b.Audio
	case KindSubtitle:
		p = b.Subtitle
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Stream is one elementary stream of the container. Timestamps are in
// TimeBase units.
type Stream struct {
	Index        int         `json:"index"`
	TimeBase     Rational    `json:"time_base"`
	StartTime    *int64      `json:"start_time,omitempty"`
	Duration     *int64      `json:"duration,omitempty"`
	FrameCount   int64       `json:"frame_count"`
	Disposition  Disposition `json:"disposition"`
	Discard      Discard     `json:"discard"`
	FrameRate    Rational    `json:"frame_rate"`
	AvgFrameRate Rational    `json:"avg_frame_rate"`
	Content      Content     `json:"content"`
}

// Kind returns the media kind of the stream's content.
func (s Stream) Kind() MediaKind {
	if s.Content == nil {
		return KindUnknown
	}
	return s.Content.Kind()
}

// DurationSeconds converts Duration to seconds.
func (s Stream) DurationSeconds() (float64, bool) {
	if s.Duration == nil || s.TimeBase.Den == 0 {
		return 0, false
	}
	return s.TimeBase.Scale(*s.Duration), true
}

// StartSeconds converts StartTime to seconds.
func (s Stream) StartSeconds() (float64, bool) {
	if s.StartTime == nil || s.TimeBase.Den == 0 {
		return 0, false
	}
	return s.TimeBase.Scale(*s.StartTime), true
}

// Content is the kind-specific payload of a stream. The set of
// implementations is closed: UnknownContent, AudioContent, VideoContent,
// DataContent, SubtitleContent and AttachmentContent.
type Content interface {
	Kind() MediaKind
	isContent()
}

// CodecDescriptor identifies the codec of an audio, video or subtitle stream.
type CodecDescriptor struct {
	ID          CodecID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// UnknownContent marks a stream whose media kind is not recognized.
type UnknownContent struct{}

// DataContent marks a data stream (timecodes, telemetry, ...).
type DataContent struct{}

// AttachmentContent marks an attachment stream (fonts, cover files, ...).
type AttachmentContent struct{}

// SubtitleContent is a subtitle stream.
type SubtitleContent struct {
	Codec CodecDescriptor `json:"codec"`
}

// AudioContent is an audio stream's codec parameters.
type AudioContent struct {
	Codec          CodecDescriptor `json:"codec"`
	BitRate        int64           `json:"bit_rate"`
	MaxBitRate     int64           `json:"max_bit_rate"`
	Delay          int64           `json:"delay"`
	SampleRate     uint32          `json:"sample_rate"`
	ChannelCount   uint16          `json:"channel_count"`
	SampleFormat   SampleFormat    `json:"sample_format"`
	FrameCount     int64           `json:"frame_count"`
	FrameAlignment int64           `json:"frame_alignment"`
	ChannelLayout  ChannelLayout   `json:"channel_layout"`
	FrameStart     *int64          `json:"frame_start,omitempty"`
}

// VideoContent is a video stream's codec parameters.
type VideoContent struct {
	Codec                  CodecDescriptor        `json:"codec"`
	BitRate                int64                  `json:"bit_rate"`
	MaxBitRate             int64                  `json:"max_bit_rate"`
	Delay                  int64                  `json:"delay"`
	Width                  uint32                 `json:"width"`
	Height                 uint32                 `json:"height"`
	PixelFormat            PixelFormat            `json:"pixel_format"`
	HasBFrames             bool                   `json:"has_b_frames"`
	AspectRatio            Rational               `json:"aspect_ratio"`
	ColorSpace             ColorSpace             `json:"color_space"`
	ColorRange             ColorRange             `json:"color_range"`
	ColorPrimaries         ColorPrimaries         `json:"color_primaries"`
	TransferCharacteristic TransferCharacteristic `json:"transfer_characteristic"`
	ChromaLocation         ChromaLocation         `json:"chroma_location"`
	ReferenceFrameCount    int                    `json:"reference_frame_count"`
	IntraDCPrecision       uint8                  `json:"intra_dc_precision"`
}

func (UnknownContent) Kind() MediaKind    { return KindUnknown }
func (DataContent) Kind() MediaKind       { return KindData }
func (AttachmentContent) Kind() MediaKind { return KindAttachment }
func (SubtitleContent) Kind() MediaKind   { return KindSubtitle }
func (AudioContent) Kind() MediaKind      { return KindAudio }
func (VideoContent) Kind() MediaKind      { return KindVideo }

func (UnknownContent) isContent()    {}
func (DataContent) isContent()       {}
func (AttachmentContent) isContent() {}
func (SubtitleContent) isContent()   {}
func (AudioContent) isContent()      {}
func (VideoContent) isContent()      {}

// CodecOf returns the codec descriptor carried by c, if its kind has one.
func CodecOf(c Content) (CodecDescriptor, bool) {
	switch v := c.(type) {
	case AudioContent:
		return v.Codec, true
	case VideoContent:
		return v.Codec, true
	case SubtitleContent:
		return v.Codec, true
	default:
		return CodecDescriptor{}, false
	}
}

// StreamsOf returns the streams of the given kind in container order.
func (s *Snapshot) StreamsOf(kind MediaKind) []Stream {
	var out []Stream
	for _, st := range s.Streams {
		if st.Kind() == kind {
			out = append(out, st)
		}
	}
	return out
}

// BestStream returns the preferred stream of kind.
func (s *Snapshot) BestStream(kind MediaKind) (Stream, bool) {
	idx, ok := s.Best.Get(kind)
	if !ok {
		return Stream{}, false
	}
	for _, st := range s.Streams {
		if st.Index == idx {
			return st, true
		}
	}
	return Stream{}, false
}
