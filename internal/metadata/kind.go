package metadata

import "strings"

// MediaKind classifies a stream. Values follow the demuxer's media type
// numbering so handles can convert without a lookup table.
type MediaKind int

const (
	KindUnknown    MediaKind = -1
	KindVideo      MediaKind = 0
	KindAudio      MediaKind = 1
	KindData       MediaKind = 2
	KindSubtitle   MediaKind = 3
	KindAttachment MediaKind = 4
)

// ParseMediaKind maps a media type name to a MediaKind. Names it does not
// recognize map to KindUnknown.
func ParseMediaKind(s string) MediaKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video":
		return KindVideo
	case "audio":
		return KindAudio
	case "data":
		return KindData
	case "subtitle":
		return KindSubtitle
	case "attachment":
		return KindAttachment
	default:
		return KindUnknown
	}
}

func (k MediaKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindData:
		return "data"
	case KindSubtitle:
		return "subtitle"
	case KindAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k MediaKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name. Unrecognized names decode to KindUnknown
// so snapshots written by newer versions still load.
func (k *MediaKind) UnmarshalText(text []byte) error {
	*k = ParseMediaKind(string(text))
	return nil
}
