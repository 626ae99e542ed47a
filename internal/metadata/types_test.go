package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRational(t *testing.T) {
	tests := []struct {
		in      string
		want    Rational
		wantErr bool
	}{
		{"", Rational{}, false},
		{"1/1000", NewRational(1, 1000), false},
		{"24000/1001", NewRational(24000, 1001), false},
		{"16:9", NewRational(16, 9), false},
		{"0/0", NewRational(0, 0), false},
		{"25", NewRational(25, 1), false},
		{"a/b", Rational{}, true},
		{"1/x", Rational{}, true},
	}

	for _, tt := range tests {
		got, err := ParseRational(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseRational(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseRational(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRationalFloat(t *testing.T) {
	assert.InDelta(t, 23.976, NewRational(24000, 1001).Float64(), 0.001)
	assert.Equal(t, 0.0, NewRational(1, 0).Float64())
	assert.True(t, NewRational(0, 0).IsZero())
	assert.InDelta(t, 120.0, NewRational(1, 15360).Scale(1843200), 1e-9)
	assert.Equal(t, "1/1000", NewRational(1, 1000).String())
}

func TestMediaKind(t *testing.T) {
	for _, kind := range []MediaKind{KindVideo, KindAudio, KindData, KindSubtitle, KindAttachment, KindUnknown} {
		assert.Equal(t, kind, ParseMediaKind(kind.String()))
	}
	assert.Equal(t, KindUnknown, ParseMediaKind("hologram"))
	assert.Equal(t, KindAudio, ParseMediaKind(" Audio "))

	var k MediaKind
	require.NoError(t, json.Unmarshal([]byte(`"telemetry"`), &k))
	assert.Equal(t, KindUnknown, k)
}

func TestDisposition(t *testing.T) {
	d := DispositionDefault | DispositionHearingImpaired | DispositionCaptions
	assert.True(t, d.Has(DispositionDefault))
	assert.False(t, d.Has(DispositionForced))
	assert.Equal(t, []string{"default", "hearing_impaired", "captions"}, d.Names())
	assert.Equal(t, "default,hearing_impaired,captions", d.String())
	assert.Equal(t, "none", Disposition(0).String())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	var back Disposition
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	empty, err := json.Marshal(Disposition(0))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestDisposition_UnnamedBits(t *testing.T) {
	d := DispositionDefault | Disposition(1<<14)
	assert.Equal(t, []string{"default", "0x4000"}, d.Names())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	var back Disposition
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	require.NoError(t, json.Unmarshal([]byte(`3`), &back))
	assert.Equal(t, DispositionDefault|DispositionDub, back)

	assert.Error(t, json.Unmarshal([]byte(`["sparkly"]`), &back))
}

func TestDiscard(t *testing.T) {
	for _, d := range []Discard{DiscardNone, DiscardDefault, DiscardNonRef, DiscardBidir, DiscardNonIntra, DiscardNonKey, DiscardAll} {
		text, err := d.MarshalText()
		require.NoError(t, err)
		var back Discard
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, d, back)
	}

	var d Discard
	require.NoError(t, d.UnmarshalText([]byte("7")))
	assert.Equal(t, Discard(7), d)
	assert.Error(t, d.UnmarshalText([]byte("sometimes")))
}

func TestChannelLayoutMask(t *testing.T) {
	mask, ok := ChannelLayout("stereo").Mask()
	require.True(t, ok)
	assert.Equal(t, ChannelFrontLeft|ChannelFrontRight, mask)

	mask, ok = ChannelLayout("5.1(side)").Mask()
	require.True(t, ok)
	assert.Equal(t, 6, popcount(mask))

	_, ok = ChannelLayout("22.2").Mask()
	assert.False(t, ok)
}

func TestSampleFormat(t *testing.T) {
	assert.True(t, SampleFormat("fltp").IsPlanar())
	assert.False(t, SampleFormat("s16").IsPlanar())
	assert.Equal(t, 4, SampleFormat("fltp").BytesPerSample())
	assert.Equal(t, 2, SampleFormat("s16").BytesPerSample())
	assert.Equal(t, 0, SampleFormat("").BytesPerSample())
}

func TestTransferIsHDR(t *testing.T) {
	assert.True(t, TransferCharacteristic("smpte2084").IsHDR())
	assert.True(t, TransferCharacteristic("arib-std-b67").IsHDR())
	assert.False(t, TransferCharacteristic("bt709").IsHDR())
}

func popcount(v uint64) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}
