package metadata

import "strings"

// CodecID is the codec's symbolic identifier in the demuxer's registry
// (for example "H264", "AAC", "SUBRIP").
type CodecID string

// SampleFormat names a PCM sample layout ("s16", "fltp", ...).
type SampleFormat string

// IsPlanar reports whether channels are stored in separate planes.
func (f SampleFormat) IsPlanar() bool {
	return len(f) > 1 && strings.HasSuffix(string(f), "p")
}

// BytesPerSample returns the size of one sample, or 0 for unknown formats.
func (f SampleFormat) BytesPerSample() int {
	switch strings.TrimSuffix(string(f), "p") {
	case "u8":
		return 1
	case "s16":
		return 2
	case "s32", "flt":
		return 4
	case "s64", "dbl":
		return 8
	default:
		return 0
	}
}

// PixelFormat names a picture layout ("yuv420p", "yuv420p10le", ...).
type PixelFormat string

// ColorSpace names the matrix coefficients ("bt709", "bt2020nc", ...).
type ColorSpace string

// ColorRange is "tv" (limited) or "pc" (full).
type ColorRange string

// ColorPrimaries names the chromaticity coordinates ("bt709", "bt2020", ...).
type ColorPrimaries string

// TransferCharacteristic names the opto-electronic transfer function
// ("bt709", "smpte2084", "arib-std-b67", ...).
type TransferCharacteristic string

// IsHDR reports whether the transfer function is PQ or HLG.
func (t TransferCharacteristic) IsHDR() bool {
	switch t {
	case "smpte2084", "arib-std-b67":
		return true
	default:
		return false
	}
}

// ChromaLocation names the chroma sample siting ("left", "topleft", ...).
type ChromaLocation string

// ChannelLayout names a speaker arrangement ("stereo", "5.1(side)", ...).
type ChannelLayout string

// Speaker position bits, matching the demuxer's channel masks.
const (
	ChannelFrontLeft          uint64 = 0x1
	ChannelFrontRight         uint64 = 0x2
	ChannelFrontCenter        uint64 = 0x4
	ChannelLowFrequency       uint64 = 0x8
	ChannelBackLeft           uint64 = 0x10
	ChannelBackRight          uint64 = 0x20
	ChannelFrontLeftOfCenter  uint64 = 0x40
	ChannelFrontRightOfCenter uint64 = 0x80
	ChannelBackCenter         uint64 = 0x100
	ChannelSideLeft           uint64 = 0x200
	ChannelSideRight          uint64 = 0x400
	ChannelTopCenter          uint64 = 0x800
	ChannelTopFrontLeft       uint64 = 0x1000
	ChannelTopFrontCenter     uint64 = 0x2000
	ChannelTopFrontRight      uint64 = 0x4000
	ChannelTopBackLeft        uint64 = 0x8000
	ChannelTopBackCenter      uint64 = 0x10000
	ChannelTopBackRight       uint64 = 0x20000
	ChannelStereoLeft         uint64 = 0x20000000
	ChannelStereoRight        uint64 = 0x40000000
)

const (
	layoutStereo      = ChannelFrontLeft | ChannelFrontRight
	layoutSurround    = layoutStereo | ChannelFrontCenter
	layout5Point0     = layoutSurround | ChannelSideLeft | ChannelSideRight
	layout5Point0Back = layoutSurround | ChannelBackLeft | ChannelBackRight
	layout5Point1     = layout5Point0 | ChannelLowFrequency
	layout5Point1Back = layout5Point0Back | ChannelLowFrequency
)

var channelLayoutMasks = map[ChannelLayout]uint64{
	"mono":           ChannelFrontCenter,
	"stereo":         layoutStereo,
	"2.1":            layoutStereo | ChannelLowFrequency,
	"3.0":            layoutSurround,
	"3.0(back)":      layoutStereo | ChannelBackCenter,
	"4.0":            layoutSurround | ChannelBackCenter,
	"quad":           layoutStereo | ChannelBackLeft | ChannelBackRight,
	"quad(side)":     layoutStereo | ChannelSideLeft | ChannelSideRight,
	"3.1":            layoutSurround | ChannelLowFrequency,
	"5.0":            layout5Point0Back,
	"5.0(side)":      layout5Point0,
	"4.1":            layoutSurround | ChannelBackCenter | ChannelLowFrequency,
	"5.1":            layout5Point1Back,
	"5.1(side)":      layout5Point1,
	"6.0":            layout5Point0 | ChannelBackCenter,
	"6.0(front)":     layoutStereo | ChannelSideLeft | ChannelSideRight | ChannelFrontLeftOfCenter | ChannelFrontRightOfCenter,
	"hexagonal":      layout5Point0Back | ChannelBackCenter,
	"6.1":            layout5Point1 | ChannelBackCenter,
	"6.1(back)":      layout5Point1Back | ChannelBackCenter,
	"6.1(front)":     layoutStereo | ChannelSideLeft | ChannelSideRight | ChannelFrontLeftOfCenter | ChannelFrontRightOfCenter | ChannelLowFrequency,
	"7.0":            layout5Point0 | ChannelBackLeft | ChannelBackRight,
	"7.0(front)":     layout5Point0 | ChannelFrontLeftOfCenter | ChannelFrontRightOfCenter,
	"7.1":            layout5Point1 | ChannelBackLeft | ChannelBackRight,
	"7.1(wide)":      layout5Point1Back | ChannelFrontLeftOfCenter | ChannelFrontRightOfCenter,
	"7.1(wide-side)": layout5Point1 | ChannelFrontLeftOfCenter | ChannelFrontRightOfCenter,
	"octagonal":      layout5Point0 | ChannelBackLeft | ChannelBackCenter | ChannelBackRight,
	"downmix":        ChannelStereoLeft | ChannelStereoRight,
}

// Mask returns the speaker-position bitmask for standard layouts and false
// for layouts that are not position based or not known.
func (l ChannelLayout) Mask() (uint64, bool) {
	mask, ok := channelLayoutMasks[l]
	if !ok || mask == 0 {
		return 0, false
	}
	return mask, true
}
