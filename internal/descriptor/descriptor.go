// Package descriptor implements the StreamDescriptor data model together
// with the format-inference, validation, and ordering rules the graph
// builders rely on. Nothing here constructs a handler; this package only
// decides what is legal and in what order the builders must see it.
package descriptor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/theassyrian/shaka-packager/internal/container"
	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
)

// StreamDescriptor is a user-supplied request to package one track from
// one input into one or more outputs. It is immutable once normalized by
// the facade.
type StreamDescriptor struct {
	Input                 string
	StreamSelector        string
	Output                string
	SegmentTemplate       string
	OutputFormat          string
	Bandwidth             uint64
	Language              string
	TrickPlayFactor       uint
	SkipEncryption        bool
	DrmLabel              string
	HLSGroupID            string
	HLSName               string
	HLSPlaylistName       string
	HLSIframePlaylistName string
}

// Clone returns a deep copy; StreamDescriptor has no reference fields today
// but Clone keeps normalization code from aliasing caller-owned strings.
func (d StreamDescriptor) Clone() StreamDescriptor {
	return d
}

// IsText reports whether the descriptor selects the text track.
func (d StreamDescriptor) IsText() bool {
	return d.StreamSelector == "text"
}

// IsMainTrack reports whether the descriptor is the primary (non-trick-play)
// track for its (input, selector) pair.
func (d StreamDescriptor) IsMainTrack() bool {
	return d.TrickPlayFactor == 0
}

var segmentTemplatePattern = regexp.MustCompile(`\$(Number|Time|Bandwidth|RepresentationID)\$`)

// ValidateSegmentTemplate reports whether template contains at least one
// recognized placeholder.
func ValidateSegmentTemplate(template string) error {
	if !segmentTemplatePattern.MatchString(template) {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "descriptor", "ValidateSegmentTemplate",
			"segment template '"+template+"' must contain a $Number$, $Time$, $Bandwidth$, or $RepresentationID$ placeholder", nil)
	}
	return nil
}

// GetOutputFormat infers the output container for d. Priority: explicit
// OutputFormat, then Output's extension, then SegmentTemplate's extension.
// When both Output and SegmentTemplate infer a format they must agree, or
// the result is container.Unknown.
func GetOutputFormat(d StreamDescriptor) container.MediaContainer {
	if d.OutputFormat != "" {
		return container.FromFormatName(d.OutputFormat)
	}

	var fromOutput, fromSegment container.MediaContainer
	haveOutput := d.Output != ""
	haveSegment := d.SegmentTemplate != ""
	if haveOutput {
		fromOutput = container.FromFileName(d.Output)
	}
	if haveSegment {
		fromSegment = container.FromFileName(d.SegmentTemplate)
	}

	if haveOutput && haveSegment {
		if fromOutput != fromSegment {
			return container.Unknown
		}
		return fromOutput
	}
	if haveOutput {
		return fromOutput
	}
	if haveSegment {
		return fromSegment
	}
	return container.Unknown
}

// ValidateStreamDescriptor checks a single descriptor's internal
// consistency. dumpStreamInfo relaxes the "must have an output" rule.
func ValidateStreamDescriptor(dumpStreamInfo bool, d StreamDescriptor) error {
	const component = "descriptor"

	if strings.TrimSpace(d.Input) == "" {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateStreamDescriptor", "stream input not specified", nil)
	}

	noOutput := d.Output == "" && d.SegmentTemplate == ""
	if dumpStreamInfo && noOutput {
		return nil
	}
	if noOutput {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateStreamDescriptor", "streams must specify output or segment_template", nil)
	}

	if d.StreamSelector == "" {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateStreamDescriptor", "stream_selector not specified", nil)
	}

	if d.SegmentTemplate != "" {
		if err := ValidateSegmentTemplate(d.SegmentTemplate); err != nil {
			return err
		}
	}
	if strings.Contains(d.Output, "$") {
		if err := ValidateSegmentTemplate(d.Output); err != nil {
			return err
		}
	}

	format := GetOutputFormat(d)
	switch {
	case format == container.Unknown:
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateStreamDescriptor", "unsupported output format", nil)
	case format == container.MPEG2TS:
		if d.SegmentTemplate == "" {
			return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateStreamDescriptor", "single file TS output is not supported; specify segment_template", nil)
		}
		if d.Output != "" {
			return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateStreamDescriptor", "all TS segments must be self-initializing; output is not allowed", nil)
		}
	case format == container.WebVTT || container.PackedAudio(format):
		if d.SegmentTemplate != "" && d.Output != "" {
			return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateStreamDescriptor",
				"segmented WebVTT or packed audio output cannot have an init segment", nil)
		}
	default:
		if d.SegmentTemplate != "" && d.Output == "" {
			return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateStreamDescriptor",
				"multi-segment content requires an init segment via output", nil)
		}
	}

	return nil
}

// Partition splits descriptors into text streams (stream_selector == "text")
// and audio/video streams, preserving relative order within each group.
func Partition(descriptors []StreamDescriptor) (text, av []StreamDescriptor) {
	for _, d := range descriptors {
		if d.IsText() {
			text = append(text, d)
		} else {
			av = append(av, d)
		}
	}
	return text, av
}

// Compare implements StreamDescriptorCompareFn: ascending by input, then by
// stream_selector, then main-track-first / larger-trick-factor-first.
func Compare(a, b StreamDescriptor) bool {
	if a.Input != b.Input {
		return a.Input < b.Input
	}
	if a.StreamSelector != b.StreamSelector {
		return a.StreamSelector < b.StreamSelector
	}
	if a.TrickPlayFactor == 0 || b.TrickPlayFactor == 0 {
		return a.TrickPlayFactor == 0 && b.TrickPlayFactor != 0
	}
	return a.TrickPlayFactor > b.TrickPlayFactor
}

// SortAudioVideo orders av in place per Compare, using a stable sort so
// descriptors with equal (input, selector, trick_play_factor) retain their
// relative input order — the sort makes no stronger promise than that.
func SortAudioVideo(av []StreamDescriptor) {
	sort.SliceStable(av, func(i, j int) bool {
		return Compare(av[i], av[j])
	})
}
