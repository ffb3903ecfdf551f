// Package graph is the pipeline compiler: it validates a descriptor set
// against global packaging parameters, then builds the wired handler.Demuxer
// / handler.Replicator / handler.Muxer (and text-pipeline equivalent) graphs
// the job manager will later run. Nothing downstream of this package
// second-guesses the wiring it produces.
package graph

import (
	"strings"

	"github.com/theassyrian/shaka-packager/internal/descriptor"
	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
)

// ValidationParams carries the subset of PackagingParams ValidateParams
// needs, flattened rather than imported from the facade package to keep
// this package free of a facade/graph import cycle.
type ValidationParams struct {
	SegmentSapAligned       bool
	SubsegmentSapAligned    bool
	OutputMediaInfo         bool
	DumpStreamInfo          bool
	HLSMasterPlaylistOutput string
	HLSPlaylistTypeVOD      bool
}

// Warn is called with a non-fatal warning message; the facade wires this to
// its logger. A nil Warn is treated as "discard".
type Warn func(message string)

// ValidateParams rejects an inconsistent (params, descriptors) pair before
// any handler is constructed, matching ValidateParams in the original
// source. It has no side effects beyond calling warn, so repeated calls on
// the same input return the same result (the idempotence property in
// spec.md §8).
func ValidateParams(params ValidationParams, descriptors []descriptor.StreamDescriptor, warn Warn) error {
	const component = "graph"

	if !params.SegmentSapAligned && params.SubsegmentSapAligned {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateParams",
			"setting segment_sap_aligned to false but subsegment_sap_aligned to true is not allowed", nil)
	}

	if len(descriptors) == 0 {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateParams",
			"stream descriptors cannot be empty", nil)
	}

	onDemand := descriptors[0].SegmentTemplate == ""
	for _, d := range descriptors {
		if onDemand != (d.SegmentTemplate == "") {
			return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "ValidateParams",
				"inconsistent stream descriptor specification: segment_template should be specified for none or all stream descriptors", nil)
		}

		if err := descriptor.ValidateStreamDescriptor(params.DumpStreamInfo, d); err != nil {
			return err
		}

		if strings.HasPrefix(d.Input, "udp://") {
			if params.HLSMasterPlaylistOutput != "" && params.HLSPlaylistTypeVOD {
				if warn != nil {
					warn("seeing UDP input with HLS Playlist Type set to VOD. The playlists will only be generated when UDP socket is closed. If you want to do live packaging, --hls_playlist_type needs to be set to LIVE.")
				}
			}
		}
	}

	if params.OutputMediaInfo && !onDemand {
		return pkgerrors.Wrap(pkgerrors.ErrUnimplemented, component, "ValidateParams",
			"--output_media_info is only supported for on-demand profile (not using segment_template)", nil)
	}

	return nil
}
