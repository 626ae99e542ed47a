package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MarshalJSON writes the stream with its content as a kind-tagged object.
func (s Stream) MarshalJSON() ([]byte, error) {
	type plain Stream
	content, err := marshalContent(s.Content)
	if err != nil {
		return nil, fmt.Errorf("stream %d: %w", s.Index, err)
	}
	return json.Marshal(struct {
		plain
		Content json.RawMessage `json:"content"`
	}{plain: plain(s), Content: content})
}

// UnmarshalJSON restores the stream and the concrete content variant.
func (s *Stream) UnmarshalJSON(data []byte) error {
	type plain Stream
	aux := struct {
		*plain
		Content json.RawMessage `json:"content"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	content, err := unmarshalContent(aux.Content)
	if err != nil {
		return fmt.Errorf("stream %d: %w", s.Index, err)
	}
	s.Content = content
	return nil
}

func marshalContent(c Content) (json.RawMessage, error) {
	switch v := c.(type) {
	case nil:
		return json.Marshal(struct {
			Kind MediaKind `json:"kind"`
		}{KindUnknown})
	case AudioContent:
		return json.Marshal(struct {
			Kind MediaKind `json:"kind"`
			AudioContent
		}{KindAudio, v})
	case VideoContent:
		return json.Marshal(struct {
			Kind MediaKind `json:"kind"`
			VideoContent
		}{KindVideo, v})
	case SubtitleContent:
		return json.Marshal(struct {
			Kind MediaKind `json:"kind"`
			SubtitleContent
		}{KindSubtitle, v})
	case UnknownContent, DataContent, AttachmentContent:
		return json.Marshal(struct {
			Kind MediaKind `json:"kind"`
		}{v.Kind()})
	default:
		return nil, fmt.Errorf("unsupported content type %T", c)
	}
}

func unmarshalContent(raw json.RawMessage) (Content, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return UnknownContent{}, nil
	}

	var head struct {
		Kind MediaKind `json:"kind"`
	}
	head.Kind = KindUnknown
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	switch head.Kind {
	case KindAudio:
		var a AudioContent
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("audio content: %w", err)
		}
		return a, nil
	case KindVideo:
		var v VideoContent
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("video content: %w", err)
		}
		return v, nil
	case KindSubtitle:
		var s SubtitleContent
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("subtitle content: %w", err)
		}
		return s, nil
	case KindData:
		return DataContent{}, nil
	case KindAttachment:
		return AttachmentContent{}, nil
	default:
		return UnknownContent{}, nil
	}
}

// Encode writes s as JSON. indent of "" produces compact output.
func Encode(w io.Writer, s *Snapshot, indent string) error {
	enc := json.NewEncoder(w)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(s)
}

// Decode parses a serialized Snapshot and rejects layouts it cannot read.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version < 1 || s.Version > SchemaVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", s.Version)
	}
	return &s, nil
}
