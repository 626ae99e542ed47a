package metadata

import (
	"fmt"
	"strings"

	errs "github.com/five82/avmeta/internal/errors"
)

// bestKinds are the media kinds the demuxer can nominate a best stream for.
var bestKinds = []MediaKind{KindVideo, KindAudio, KindSubtitle}

// Project reads h once and returns its Snapshot. Any stream that fails to
// resolve aborts the whole projection; no partial Snapshot is returned.
// h is only queried, never retained or modified, and must not be mutated
// by other goroutines while Project runs.
func Project(h FormatHandle) (*Snapshot, error) {
	if h == nil {
		return nil, errs.NewInvariantViolation("nil format handle")
	}

	format := projectFormat(h.Format())
	nominated := nominateBest(h)

	streams, err := collect(h.Streams(), projectStream)
	if err != nil {
		return nil, err
	}

	best, err := resolveBest(nominated, streams)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Version: SchemaVersion,
		Format:  format,
		Best:    best,
		Streams: streams,
		Details: projectDetails(h.Tags()),
	}, nil
}

// collect maps items through fn in order and stops at the first error.
func collect[T, U any](items []T, fn func(T) (U, error)) ([]U, error) {
	out := make([]U, 0, len(items))
	for _, item := range items {
		u, err := fn(item)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func projectFormat(raw RawFormat) FormatDescriptor {
	names := splitList(raw.Name)
	desc := FormatDescriptor{
		Description: raw.Description,
		Extensions:  splitList(raw.Extensions),
		MimeTypes:   splitList(raw.MimeTypes),
	}
	if len(names) > 0 {
		desc.Name = names[0]
		if len(names) > 1 {
			desc.Aliases = names[1:]
		}
	}
	return desc
}

// splitList splits a comma-separated list, trimming entries and dropping
// empties and repeats. It returns nil for an empty list.
func splitList(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

func nominateBest(h FormatHandle) map[MediaKind]int {
	nominated := make(map[MediaKind]int, len(bestKinds))
	for _, kind := range bestKinds {
		if st, ok := h.BestStream(kind); ok && st != nil {
			nominated[kind] = st.Index()
		}
	}
	return nominated
}

// resolveBest checks every nominated index against the projected streams.
func resolveBest(nominated map[MediaKind]int, streams []Stream) (Best, error) {
	var best Best
	for _, kind := range bestKinds {
		idx, ok := nominated[kind]
		if !ok {
			continue
		}
		st, found := findStream(streams, idx)
		if !found {
			return Best{}, errs.NewInvariantViolation(
				fmt.Sprintf("best %s stream %d is not among the %d enumerated streams", kind, idx, len(streams)))
		}
		if st.Kind() != kind {
			return Best{}, errs.NewInvariantViolation(
				fmt.Sprintf("best %s stream %d has %s content", kind, idx, st.Kind()))
		}
		switch kind {
		case KindVideo:
			best.Video = &idx
		case KindAudio:
			best.Audio = &idx
		case KindSubtitle:
			best.Subtitle = &idx
		}
	}
	return best, nil
}

func findStream(streams []Stream, index int) (Stream, bool) {
	for _, st := range streams {
		if st.Index == index {
			return st, true
		}
	}
	return Stream{}, false
}

func projectStream(h StreamHandle) (Stream, error) {
	content, err := projectContent(h.Index(), h.CodecParameters())
	if err != nil {
		return Stream{}, err
	}

	st := Stream{
		Index:        h.Index(),
		TimeBase:     h.TimeBase(),
		FrameCount:   h.FrameCount(),
		Disposition:  h.Disposition(),
		Discard:      h.Discard(),
		FrameRate:    h.FrameRate(),
		AvgFrameRate: h.AvgFrameRate(),
		Content:      content,
	}
	if v, ok := h.StartTime(); ok {
		st.StartTime = &v
	}
	if v, ok := h.Duration(); ok {
		st.Duration = &v
	}
	return st, nil
}

func projectContent(index int, params CodecParameters) (Content, error) {
	if params == nil {
		return UnknownContent{}, nil
	}

	switch params.MediaKind() {
	case KindAudio:
		return projectAudio(index, params)
	case KindVideo:
		return projectVideo(index, params)
	case KindSubtitle:
		return projectSubtitle(index, params)
	case KindData:
		return DataContent{}, nil
	case KindAttachment:
		return AttachmentContent{}, nil
	default:
		return UnknownContent{}, nil
	}
}

func projectAudio(index int, params CodecParameters) (Content, error) {
	dec, err := params.AudioDecoder()
	if err != nil {
		return nil, errs.NewCodecResolutionError(index, KindAudio.String(), err)
	}
	codec, err := resolveCodec(index, KindAudio, dec)
	if err != nil {
		return nil, err
	}

	audio := AudioContent{
		Codec:          codec,
		BitRate:        dec.BitRate(),
		MaxBitRate:     dec.MaxBitRate(),
		Delay:          dec.Delay(),
		SampleRate:     dec.SampleRate(),
		ChannelCount:   dec.Channels(),
		SampleFormat:   dec.SampleFormat(),
		FrameCount:     dec.FrameCount(),
		FrameAlignment: dec.FrameAlignment(),
		ChannelLayout:  dec.ChannelLayout(),
	}
	if v, ok := dec.FrameStart(); ok {
		audio.FrameStart = &v
	}
	return audio, nil
}

func projectVideo(index int, params CodecParameters) (Content, error) {
	dec, err := params.VideoDecoder()
	if err != nil {
		return nil, errs.NewCodecResolutionError(index, KindVideo.String(), err)
	}
	codec, err := resolveCodec(index, KindVideo, dec)
	if err != nil {
		return nil, err
	}

	return VideoContent{
		Codec:                  codec,
		BitRate:                dec.BitRate(),
		MaxBitRate:             dec.MaxBitRate(),
		Delay:                  dec.Delay(),
		Width:                  dec.Width(),
		Height:                 dec.Height(),
		PixelFormat:            dec.PixelFormat(),
		HasBFrames:             dec.HasBFrames(),
		AspectRatio:            dec.AspectRatio(),
		ColorSpace:             dec.ColorSpace(),
		ColorRange:             dec.ColorRange(),
		ColorPrimaries:         dec.ColorPrimaries(),
		TransferCharacteristic: dec.TransferCharacteristic(),
		ChromaLocation:         dec.ChromaLocation(),
		ReferenceFrameCount:    dec.References(),
		IntraDCPrecision:       dec.IntraDCPrecision(),
	}, nil
}

func projectSubtitle(index int, params CodecParameters) (Content, error) {
	dec, err := params.SubtitleDecoder()
	if err != nil {
		return nil, errs.NewCodecResolutionError(index, KindSubtitle.String(), err)
	}
	codec, err := resolveCodec(index, KindSubtitle, dec)
	if err != nil {
		return nil, err
	}
	return SubtitleContent{Codec: codec}, nil
}

func resolveCodec(index int, kind MediaKind, dec Decoder) (CodecDescriptor, error) {
	if dec == nil {
		return CodecDescriptor{}, errs.NewCodecResolutionError(index, kind.String(), nil)
	}
	codec, ok := dec.Codec()
	if !ok {
		return CodecDescriptor{}, errs.NewCodecResolutionError(index, kind.String(), nil)
	}
	return codec, nil
}

// projectDetails copies the container tags. A repeated key keeps its last value.
func projectDetails(tags []Tag) map[string]string {
	details := make(map[string]string, len(tags))
	for _, tag := range tags {
		details[tag.Key] = tag.Value
	}
	return details
}
