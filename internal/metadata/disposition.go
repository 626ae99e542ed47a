package metadata

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Disposition is the stream's flag set. Bit values match the demuxer's
// disposition constants.
type Disposition uint32

const (
	DispositionDefault         Disposition = 1 << 0
	DispositionDub             Disposition = 1 << 1
	DispositionOriginal        Disposition = 1 << 2
	DispositionComment         Disposition = 1 << 3
	DispositionLyrics          Disposition = 1 << 4
	DispositionKaraoke         Disposition = 1 << 5
	DispositionForced          Disposition = 1 << 6
	DispositionHearingImpaired Disposition = 1 << 7
	DispositionVisualImpaired  Disposition = 1 << 8
	DispositionCleanEffects    Disposition = 1 << 9
	DispositionAttachedPic     Disposition = 1 << 10
	DispositionTimedThumbnails Disposition = 1 << 11
	DispositionNonDiegetic     Disposition = 1 << 12
	DispositionCaptions        Disposition = 1 << 16
	DispositionDescriptions    Disposition = 1 << 17
	DispositionMetadata        Disposition = 1 << 18
	DispositionDependent       Disposition = 1 << 19
	DispositionStillImage      Disposition = 1 << 20
	DispositionMultilayer      Disposition = 1 << 21
)

var dispositionNames = map[Disposition]string{
	DispositionDefault:         "default",
	DispositionDub:             "dub",
	DispositionOriginal:        "original",
	DispositionComment:         "comment",
	DispositionLyrics:          "lyrics",
	DispositionKaraoke:         "karaoke",
	DispositionForced:          "forced",
	DispositionHearingImpaired: "hearing_impaired",
	DispositionVisualImpaired:  "visual_impaired",
	DispositionCleanEffects:    "clean_effects",
	DispositionAttachedPic:     "attached_pic",
	DispositionTimedThumbnails: "timed_thumbnails",
	DispositionNonDiegetic:     "non_diegetic",
	DispositionCaptions:        "captions",
	DispositionDescriptions:    "descriptions",
	DispositionMetadata:        "metadata",
	DispositionDependent:       "dependent",
	DispositionStillImage:      "still_image",
	DispositionMultilayer:      "multilayer",
}

// DispositionFromName returns the flag for a disposition name.
func DispositionFromName(name string) (Disposition, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for flag, n := range dispositionNames {
		if n == name {
			return flag, true
		}
	}
	return 0, false
}

// Has reports whether every bit of flag is set.
func (d Disposition) Has(flag Disposition) bool {
	return d&flag == flag
}

// Names lists the set flags in bit order. Bits without a name are rendered
// as hexadecimal so no information is lost.
func (d Disposition) Names() []string {
	names := make([]string, 0, bits.OnesCount32(uint32(d)))
	for rest := uint32(d); rest != 0; rest &= rest - 1 {
		flag := Disposition(rest & -rest)
		if name, ok := dispositionNames[flag]; ok {
			names = append(names, name)
		} else {
			names = append(names, fmt.Sprintf("0x%x", uint32(flag)))
		}
	}
	return names
}

func (d Disposition) String() string {
	if d == 0 {
		return "none"
	}
	return strings.Join(d.Names(), ",")
}

// MarshalJSON encodes the flag set as a list of names.
func (d Disposition) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Names())
}

// UnmarshalJSON accepts a list of names or a raw bit mask.
func (d *Disposition) UnmarshalJSON(data []byte) error {
	var mask uint32
	if err := json.Unmarshal(data, &mask); err == nil {
		*d = Disposition(mask)
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("disposition: %w", err)
	}

	var out Disposition
	for _, name := range names {
		if flag, ok := DispositionFromName(name); ok {
			out |= flag
			continue
		}
		if strings.HasPrefix(name, "0x") {
			v, err := strconv.ParseUint(name[2:], 16, 32)
			if err != nil {
				return fmt.Errorf("disposition: invalid flag %q", name)
			}
			out |= Disposition(v)
			continue
		}
		return fmt.Errorf("disposition: unknown flag %q", name)
	}
	*d = out
	return nil
}

// Discard is the decoder's frame-skipping hint for a stream. It is advisory
// and says nothing about what the container holds.
type Discard int

const (
	DiscardNone     Discard = -16
	DiscardDefault  Discard = 0
	DiscardNonRef   Discard = 8
	DiscardBidir    Discard = 16
	DiscardNonIntra Discard = 24
	DiscardNonKey   Discard = 32
	DiscardAll      Discard = 48
)

var discardNames = map[Discard]string{
	DiscardNone:     "none",
	DiscardDefault:  "default",
	DiscardNonRef:   "nonref",
	DiscardBidir:    "bidir",
	DiscardNonIntra: "nonintra",
	DiscardNonKey:   "nonkey",
	DiscardAll:      "all",
}

func (d Discard) String() string {
	if name, ok := discardNames[d]; ok {
		return name
	}
	return strconv.Itoa(int(d))
}

// MarshalText encodes the level by name.
func (d Discard) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a level name or its numeric value.
func (d *Discard) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for level, name := range discardNames {
		if name == s {
			*d = level
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("discard: unknown level %q", s)
	}
	*d = Discard(n)
	return nil
}
