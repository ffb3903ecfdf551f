package graph

import (
	"github.com/theassyrian/shaka-packager/internal/descriptor"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/manifest"
	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
)

// BuildAudioVideo implements §4.4. streams must already be sorted per
// descriptor.SortAudioVideo — the caller (the facade, which owns the full
// descriptor list) is responsible for that so this builder can stay
// unaware of text streams.
//
// Deviation from the original source: a CueAlignmentHandler is constructed
// once per (input, stream_selector) — at the same "new_stream" transition
// as the Replicator — rather than once per raw input shared across every
// selector of that input. The original's per-input cue_aligner is bound as
// the target of every selector's demuxer output, which would double-bind a
// single handler.Input under this package's single-bind guard (invariant 2
// only promises one Replicator per (input, selector), not a shared cue
// aligner). Every aligner still rendezvous through the same
// *syncpoint.Queue instance, which is what S6 actually requires.
func BuildAudioVideo(streams []descriptor.StreamDescriptor, chunking handler.ChunkingParams, c *Collaborators, jobs JobRegistrar) error {
	demuxers := make(map[string]*handler.Demuxer)
	var order []string

	for _, stream := range streams {
		if _, ok := demuxers[stream.Input]; ok {
			continue
		}
		d := handler.NewDemuxer(stream.Input, c.demuxFunc(stream))
		if c.DecryptionKeySource != nil {
			d.SetKeySource(c.DecryptionKeySource)
		}
		demuxers[stream.Input] = d
		order = append(order, stream.Input)
	}

	for _, input := range order {
		jobs.Add("RemuxJob", demuxers[input])
	}

	var replicator *handler.Replicator
	var previousInput, previousSelector string

	for _, stream := range streams {
		demuxer := demuxers[stream.Input]

		newInput := stream.Input != previousInput
		newStream := newInput || previousSelector != stream.StreamSelector
		previousInput = stream.Input
		previousSelector = stream.StreamSelector

		if stream.Output == "" && stream.SegmentTemplate == "" {
			continue
		}

		if newStream {
			if stream.Language != "" {
				demuxer.SetLanguageOverride(stream.StreamSelector, stream.Language)
			}

			replicator = handler.NewReplicator()
			chunker := handler.NewChunkingHandler(chunking)
			encryptor := newEncryptionHandler(c, stream)

			var headTarget handler.MediaHandler = chunker
			headInput := &chunker.Input
			if c.SyncPoints != nil {
				aligner := handler.NewCueAlignmentHandler(c.SyncPoints)
				if err := handler.Chain(&aligner.Output, chunker, &chunker.Input); err != nil {
					return err
				}
				headTarget = aligner
				headInput = &aligner.Input
			}

			var afterChunker handler.MediaHandler = replicator
			afterChunkerInput := &replicator.Input
			if encryptor != nil {
				if err := handler.Chain(&encryptor.Output, replicator, &replicator.Input); err != nil {
					return err
				}
				afterChunker = encryptor
				afterChunkerInput = &encryptor.Input
			}
			if err := handler.Chain(&chunker.Output, afterChunker, afterChunkerInput); err != nil {
				return err
			}

			if err := handler.ChainSelector(&demuxer.NamedOutputs, stream.StreamSelector, headTarget, headInput); err != nil {
				return err
			}
		}

		if replicator == nil {
			return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "graph", "BuildAudioVideo",
				"stream with output but no preceding main track: "+stream.Input+":"+stream.StreamSelector, nil)
		}

		format := descriptor.GetOutputFormat(stream)
		var listener *manifest.Listener
		if c.ListenerFactory != nil {
			listener = c.ListenerFactory.New(listenerParamsFor(stream))
		}
		muxer := handler.NewMuxer(format, stream.Output, stream.SegmentTemplate, listener, c.muxWriteFunc(format, stream))

		var muxTarget handler.MediaHandler = muxer
		muxTargetInput := &muxer.Input
		if stream.TrickPlayFactor > 0 {
			trick := handler.NewTrickPlayHandler(stream.TrickPlayFactor)
			if err := handler.Chain(&trick.Output, muxer, &muxer.Input); err != nil {
				return err
			}
			muxTarget = trick
			muxTargetInput = &trick.Input
		}
		if err := handler.Chain(&replicator.Output, muxTarget, muxTargetInput); err != nil {
			return err
		}
	}

	return nil
}

func listenerParamsFor(stream descriptor.StreamDescriptor) manifest.ListenerParams {
	return manifest.ListenerParams{
		RepresentationID:  stream.Input + ":" + stream.StreamSelector,
		Bandwidth:         stream.Bandwidth,
		Language:          stream.Language,
		HLSGroupID:        stream.HLSGroupID,
		HLSName:           stream.HLSName,
		HLSPlaylistName:   stream.HLSPlaylistName,
		HLSIframePlaylist: stream.HLSIframePlaylistName,
		OutputPath:        stream.Output,
	}
}
