package domain

// FileRef addresses a previewable file. Identity is the path.
type FileRef struct {
	Path string // Route path of the file, e.g. "/movies/clip.mp4"
	Name string // File name, used for strategy selection
}

// FlvDecoderID names the decoder extension that plays FLV containers
const FlvDecoderID = "flv-decoder"

// PlaybackStrategy selects how the player surface consumes the media URL.
// The zero value is standard, element-native playback. Two strategies are
// the same identity iff they compare equal.
type PlaybackStrategy struct {
	DecoderID string // Empty for standard playback
}

// StandardPlayback plays the raw URL directly
var StandardPlayback = PlaybackStrategy{}

// ExtensionRequired returns a strategy that needs the named decoder
func ExtensionRequired(decoderID string) PlaybackStrategy {
	return PlaybackStrategy{DecoderID: decoderID}
}

// RequiresDecoder reports whether a decoder extension must be loaded first
func (s PlaybackStrategy) RequiresDecoder() bool {
	return s.DecoderID != ""
}

func (s PlaybackStrategy) String() string {
	if s.RequiresDecoder() {
		return "extension-required(" + s.DecoderID + ")"
	}
	return "standard"
}

// ResolvedLinks holds the relative URLs derived for a file.
// Each carries the auth token query parameter when one is stored.
type ResolvedLinks struct {
	MediaURL     string
	ThumbnailURL string
	SubtitleURL  string // Always derived, whether or not the resource exists
}

// PhaseKind enumerates preview readiness states
type PhaseKind int

const (
	PhaseLoading PhaseKind = iota
	PhaseError
	PhaseReady
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// PreviewPhase is the externally observable state of a preview
type PreviewPhase struct {
	Kind    PhaseKind
	Message string // Failure message, set only for PhaseError
}

// LoadingPhase returns the phase shown while a decoder loads
func LoadingPhase() PreviewPhase { return PreviewPhase{Kind: PhaseLoading} }

// ReadyPhase returns the phase in which the player surface is shown
func ReadyPhase() PreviewPhase { return PreviewPhase{Kind: PhaseReady} }

// ErrorPhase returns a terminal error phase carrying msg
func ErrorPhase(msg string) PreviewPhase { return PreviewPhase{Kind: PhaseError, Message: msg} }

// InitialPhase returns the phase a preview starts in for the given strategy
func InitialPhase(s PlaybackStrategy) PreviewPhase {
	if s.RequiresDecoder() {
		return LoadingPhase()
	}
	return ReadyPhase()
}

func (p PreviewPhase) IsLoading() bool { return p.Kind == PhaseLoading }
func (p PreviewPhase) IsReady() bool   { return p.Kind == PhaseReady }
func (p PreviewPhase) IsError() bool   { return p.Kind == PhaseError }
