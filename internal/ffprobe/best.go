package ffprobe

import "github.com/five82/avmeta/internal/metadata"

// BestStream picks the preferred stream of kind the way a player would:
// streams with an identified codec only, cover art is never the best video,
// then undecorated over accessibility tracks, default over non-default,
// larger picture or more channels, and higher bit rate. Ties keep the
// earliest stream.
func (h *Handle) BestStream(kind metadata.MediaKind) (metadata.StreamHandle, bool) {
	var best *stream
	for _, s := range h.streams {
		if !eligible(s, kind) {
			continue
		}
		if best == nil || better(s, best) {
			best = s
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

func eligible(s *stream, kind metadata.MediaKind) bool {
	if s.kind != kind || !s.resolvable() {
		return false
	}
	if kind == metadata.KindVideo && s.disposition.Has(metadata.DispositionAttachedPic) {
		return false
	}
	return true
}

// better reports whether a strictly outranks b.
func better(a, b *stream) bool {
	if ai, bi := impaired(a), impaired(b); ai != bi {
		return !ai
	}
	if ad, bd := a.disposition.Has(metadata.DispositionDefault), b.disposition.Has(metadata.DispositionDefault); ad != bd {
		return ad
	}
	if as, bs := magnitude(a), magnitude(b); as != bs {
		return as > bs
	}
	return parseInt(a.raw.BitRate) > parseInt(b.raw.BitRate)
}

func impaired(s *stream) bool {
	return s.disposition.Has(metadata.DispositionHearingImpaired) ||
		s.disposition.Has(metadata.DispositionVisualImpaired)
}

// magnitude is picture area for video and channel count for audio.
func magnitude(s *stream) int64 {
	switch s.kind {
	case metadata.KindVideo:
		return int64(s.raw.Width) * int64(s.raw.Height)
	case metadata.KindAudio:
		return int64(s.raw.Channels)
	default:
		return 0
	}
}
