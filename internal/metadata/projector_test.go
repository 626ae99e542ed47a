package metadata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/five82/avmeta/internal/errors"
)

func TestProject_Movie(t *testing.T) {
	snap, err := Project(movie())
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, SchemaVersion, snap.Version)
	assert.Equal(t, "mov", snap.Format.Name)
	assert.Equal(t, []string{"mp4", "m4a", "3gp", "3g2", "mj2"}, snap.Format.Aliases)
	assert.Equal(t, "QuickTime / MOV", snap.Format.Description)
	assert.Contains(t, snap.Format.Extensions, "m4b")
	assert.Equal(t, []string{"video/quicktime", "video/mp4"}, snap.Format.MimeTypes)

	require.Len(t, snap.Streams, 3)
	for i, st := range snap.Streams {
		assert.Equal(t, i, st.Index)
	}

	video, ok := snap.Streams[0].Content.(VideoContent)
	require.True(t, ok, "stream 0 should be video, got %T", snap.Streams[0].Content)
	assert.Equal(t, CodecID("H264"), video.Codec.ID)
	assert.Equal(t, uint32(1920), video.Width)
	assert.Equal(t, uint32(1080), video.Height)
	assert.True(t, video.HasBFrames)
	assert.Equal(t, 1, video.ReferenceFrameCount)

	audio, ok := snap.Streams[1].Content.(AudioContent)
	require.True(t, ok)
	assert.Equal(t, uint32(48000), audio.SampleRate)
	assert.Equal(t, uint16(2), audio.ChannelCount)
	assert.Equal(t, int64(1024), audio.Delay)
	require.NotNil(t, audio.FrameStart)
	assert.Equal(t, int64(0), *audio.FrameStart)

	sub, ok := snap.Streams[2].Content.(SubtitleContent)
	require.True(t, ok)
	assert.Equal(t, "subrip", sub.Codec.Name)
	assert.Nil(t, snap.Streams[2].StartTime)
	assert.Nil(t, snap.Streams[2].Duration)

	bv, ok := snap.Best.Get(KindVideo)
	require.True(t, ok)
	assert.Equal(t, 0, bv)
	ba, ok := snap.Best.Get(KindAudio)
	require.True(t, ok)
	assert.Equal(t, 1, ba)
	assert.Nil(t, snap.Best.Subtitle)

	assert.Equal(t, map[string]string{"major_brand": "isom", "encoder": "Lavf60.16.100"}, snap.Details)
}

func TestProject_BestMatchesKind(t *testing.T) {
	snap, err := Project(movie())
	require.NoError(t, err)

	for _, kind := range []MediaKind{KindVideo, KindAudio, KindSubtitle} {
		st, ok := snap.BestStream(kind)
		if !ok {
			continue
		}
		assert.Equal(t, kind, st.Kind(), "best %s stream", kind)
	}
}

func TestProject_PreservesNonContiguousIndices(t *testing.T) {
	f := movie()
	f.streams[0].index = 4
	f.streams[1].index = 7
	f.streams[2].index = 9
	f.best = map[MediaKind]int{KindVideo: 4, KindAudio: 7, KindSubtitle: 9}

	snap, err := Project(f)
	require.NoError(t, err)
	require.Len(t, snap.Streams, 3)
	assert.Equal(t, 4, snap.Streams[0].Index)
	assert.Equal(t, 7, snap.Streams[1].Index)
	assert.Equal(t, 9, snap.Streams[2].Index)

	st, ok := snap.BestStream(KindSubtitle)
	require.True(t, ok)
	assert.Equal(t, 9, st.Index)
}

func TestProject_NoStreams(t *testing.T) {
	f := &fakeFormat{raw: RawFormat{Name: "ffmetadata", Description: "FFmpeg metadata in text"}}

	snap, err := Project(f)
	require.NoError(t, err)
	assert.Empty(t, snap.Streams)
	assert.Nil(t, snap.Best.Video)
	assert.Nil(t, snap.Best.Audio)
	assert.Nil(t, snap.Best.Subtitle)
	assert.NotNil(t, snap.Details)
	assert.Empty(t, snap.Details)
	assert.Nil(t, snap.Format.Aliases)
	assert.Nil(t, snap.Format.Extensions)
}

func TestProject_MarkerKinds(t *testing.T) {
	f := &fakeFormat{
		raw: RawFormat{Name: "matroska,webm"},
		streams: []*fakeStream{
			{index: 0, params: &fakeParams{kind: KindData}},
			{index: 1, params: &fakeParams{kind: KindAttachment}},
			{index: 2, params: &fakeParams{kind: MediaKind(42)}},
			{index: 3},
		},
	}

	snap, err := Project(f)
	require.NoError(t, err)
	require.Len(t, snap.Streams, 4)
	assert.Equal(t, DataContent{}, snap.Streams[0].Content)
	assert.Equal(t, AttachmentContent{}, snap.Streams[1].Content)
	assert.Equal(t, UnknownContent{}, snap.Streams[2].Content)
	assert.Equal(t, UnknownContent{}, snap.Streams[3].Content)
	assert.Equal(t, []string{"webm"}, snap.Format.Aliases)
}

func TestProject_CodecResolutionFailure(t *testing.T) {
	tests := []struct {
		name   string
		stream int
		params *fakeParams
	}{
		{"audio decoder error", 1, &fakeParams{kind: KindAudio, decErr: errNoDecoder}},
		{"audio codec missing", 1, &fakeParams{kind: KindAudio}},
		{"video codec missing", 0, &fakeParams{kind: KindVideo}},
		{"subtitle decoder error", 2, &fakeParams{kind: KindSubtitle, decErr: errNoDecoder}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := movie()
			f.streams[tt.stream].params = tt.params

			snap, err := Project(f)
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.True(t, errs.IsCodecResolution(err), "got %v", err)

			var streamErr *errs.StreamError
			require.ErrorAs(t, err, &streamErr)
			assert.Equal(t, tt.stream, streamErr.Index)
			assert.Equal(t, tt.params.kind.String(), streamErr.MediaKind)
		})
	}
}

func TestProject_CodecResolutionWrapsCause(t *testing.T) {
	f := movie()
	f.streams[1].params = &fakeParams{kind: KindAudio, decErr: errNoDecoder}

	_, err := Project(f)
	require.ErrorIs(t, err, errNoDecoder)
}

func TestProject_DuplicateTagsLastWins(t *testing.T) {
	f := movie()
	f.tags = []Tag{{Key: "title", Value: "first"}, {Key: "artist", Value: "x"}, {Key: "title", Value: "second"}}

	snap, err := Project(f)
	require.NoError(t, err)
	assert.Equal(t, "second", snap.Details["title"])
	assert.Len(t, snap.Details, 2)
}

func TestProject_InvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		best map[MediaKind]int
	}{
		{"best index absent", map[MediaKind]int{KindVideo: 12}},
		{"best kind mismatch", map[MediaKind]int{KindAudio: 0}},
		{"best subtitle is video", map[MediaKind]int{KindSubtitle: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := movie()
			f.best = tt.best

			snap, err := Project(f)
			assert.Nil(t, snap)
			assert.True(t, errs.IsKind(err, errs.KindInvariantViolation), "got %v", err)
		})
	}
}

func TestProject_NilHandle(t *testing.T) {
	snap, err := Project(nil)
	assert.Nil(t, snap)
	assert.True(t, errs.IsKind(err, errs.KindInvariantViolation))
}

func TestProject_Deterministic(t *testing.T) {
	a, err := Project(movie())
	require.NoError(t, err)
	b, err := Project(movie())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var bufA, bufB bytes.Buffer
	require.NoError(t, Encode(&bufA, a, ""))
	require.NoError(t, Encode(&bufB, b, ""))
	assert.Equal(t, bufA.String(), bufB.String())
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"mp4", []string{"mp4"}},
		{"mov, mp4 ,m4a", []string{"mov", "mp4", "m4a"}},
		{"mkv,mkv,mka", []string{"mkv", "mka"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitList(tt.in), "splitList(%q)", tt.in)
	}
}
