package graph

import (
	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/descriptor"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/manifest"
	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
)

// noDuration is the padder's fixed construction argument: stream duration
// is unknown up front (spec.md §4.5).
const noDuration = 0

// BuildText implements §4.5's four routing cases for every text stream.
func BuildText(streams []descriptor.StreamDescriptor, chunking handler.ChunkingParams, c *Collaborators, mpd manifest.MpdNotifier, jobs JobRegistrar) error {
	for _, stream := range streams {
		if err := buildOneText(stream, chunking, c, mpd, jobs); err != nil {
			return err
		}
	}
	return nil
}

func buildOneText(stream descriptor.StreamDescriptor, chunking handler.ChunkingParams, c *Collaborators, mpd manifest.MpdNotifier, jobs JobRegistrar) error {
	const component = "graph"

	inputContainer := container.FromFileName(stream.Input)
	outputContainer := descriptor.GetOutputFormat(stream)

	if inputContainer != container.WebVTT {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "BuildText",
			"text output format is not supported for "+stream.Input, nil)
	}

	if outputContainer == container.MP4 {
		return buildWebVttToMp4Job(stream, chunking, c, jobs)
	}

	var hlsListener *manifest.Listener
	if c.ListenerFactory != nil && c.ListenerFactory.Hls != nil {
		if _, isNoop := c.ListenerFactory.Hls.(manifest.NoopHls); !isNoop {
			hlsListener = c.ListenerFactory.New(listenerParamsFor(stream))
		}
	}

	if hlsListener != nil {
		if stream.SegmentTemplate == "" || stream.Output != "" {
			return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "BuildText",
				"segment_template needs to be specified for HLS text output; single file output is not supported yet", nil)
		}
	}

	if mpd != nil {
		if _, isNoop := mpd.(manifest.NoopMpd); !isNoop && stream.SegmentTemplate != "" {
			return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "BuildText",
				"cannot create text output for MPD with segment output", nil)
		}
	}

	if hlsListener != nil {
		if err := buildHlsTextJob(stream, chunking, c, hlsListener, jobs); err != nil {
			return err
		}
	}

	if stream.Output != "" {
		return buildTextPassthrough(stream, c, mpd)
	}

	return nil
}

func buildWebVttToMp4Job(stream descriptor.StreamDescriptor, chunking handler.ChunkingParams, c *Collaborators, jobs JobRegistrar) error {
	parser := handler.NewWebVttParser(stream.Input, c.textParseFunc(stream))
	padder := handler.NewTextPadder(noDuration)
	if err := handler.Chain(&parser.Output, padder, &padder.Input); err != nil {
		return err
	}

	tailOutput := &padder.Output

	if c.SyncPoints != nil {
		aligner := handler.NewCueAlignmentHandler(c.SyncPoints)
		if err := handler.Chain(tailOutput, aligner, &aligner.Input); err != nil {
			return err
		}
		tailOutput = &aligner.Output
	}

	chunker := handler.NewTextChunker(chunking.SegmentDurationSeconds)
	if err := handler.Chain(tailOutput, chunker, &chunker.Input); err != nil {
		return err
	}

	toMp4 := handler.NewWebVttToMp4Handler(c.textTransformFunc(stream))
	if err := handler.Chain(&chunker.Output, toMp4, &toMp4.Input); err != nil {
		return err
	}

	format := descriptor.GetOutputFormat(stream)
	var listener *manifest.Listener
	if c.ListenerFactory != nil {
		listener = c.ListenerFactory.New(listenerParamsFor(stream))
	}
	muxer := handler.NewMuxer(format, stream.Output, stream.SegmentTemplate, listener, c.muxWriteFunc(format, stream))
	if err := handler.Chain(&toMp4.Output, muxer, &muxer.Input); err != nil {
		return err
	}

	jobs.Add("MP4 text job", parser)
	return nil
}

func buildHlsTextJob(stream descriptor.StreamDescriptor, chunking handler.ChunkingParams, c *Collaborators, listener *manifest.Listener, jobs JobRegistrar) error {
	if stream.SegmentTemplate == "" {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "graph", "buildHlsTextJob",
			"cannot output text ("+stream.Input+") to HLS with no segment template", nil)
	}

	parser := handler.NewWebVttParser(stream.Input, c.textParseFunc(stream))
	padder := handler.NewTextPadder(noDuration)
	if err := handler.Chain(&parser.Output, padder, &padder.Input); err != nil {
		return err
	}

	tailOutput := &padder.Output
	if c.SyncPoints != nil {
		aligner := handler.NewCueAlignmentHandler(c.SyncPoints)
		if err := handler.Chain(tailOutput, aligner, &aligner.Input); err != nil {
			return err
		}
		tailOutput = &aligner.Output
	}

	chunker := handler.NewTextChunker(chunking.SegmentDurationSeconds)
	if err := handler.Chain(tailOutput, chunker, &chunker.Input); err != nil {
		return err
	}

	output := handler.NewWebVttTextOutputHandler(c.textSegmentWriteFunc(stream), listener)
	if err := handler.Chain(&chunker.Output, output, &output.Input); err != nil {
		return err
	}

	jobs.Add("Segmented Text Job", parser)
	return nil
}

func buildTextPassthrough(stream descriptor.StreamDescriptor, c *Collaborators, mpd manifest.MpdNotifier) error {
	const component = "graph"

	if c.CopyFile == nil {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "buildTextPassthrough",
			"no file copy collaborator configured for text passthrough", nil)
	}
	if err := c.CopyFile(stream.Input, stream.Output); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrFileFailure, component, "buildTextPassthrough",
			"failed to copy the input file ("+stream.Input+") to output file ("+stream.Output+")", err)
	}

	info, err := textMediaInfo(stream, c)
	if err != nil {
		return err
	}

	if mpd != nil {
		if _, isNoop := mpd.(manifest.NoopMpd); !isNoop {
			if c.NotifyTextContainer != nil {
				if err := c.NotifyTextContainer(info); err != nil {
					return pkgerrors.Wrap(pkgerrors.ErrParserFailure, component, "buildTextPassthrough",
						"failed to process text file "+stream.Input, err)
				}
			}
			if err := mpd.Flush(); err != nil {
				return err
			}
		}
	}

	if c.OutputMediaInfo && c.WriteMediaInfo != nil {
		suffix := c.MediaInfoSuffix
		if suffix == "" {
			suffix = ".media_info"
		}
		if err := c.WriteMediaInfo(stream.Output+suffix, info); err != nil {
			return err
		}
	}

	return nil
}

func textMediaInfo(stream descriptor.StreamDescriptor, c *Collaborators) (TextMediaInfo, error) {
	const component = "graph"

	codec := "wvtt"
	if c.DetermineTextFileCodec != nil {
		sniffed, err := c.DetermineTextFileCodec(stream.Input)
		if err != nil {
			return TextMediaInfo{}, pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, component, "textMediaInfo",
				"failed to determine the text file format for "+stream.Input, err)
		}
		codec = sniffed
	}

	bandwidth := stream.Bandwidth
	if bandwidth == 0 {
		bandwidth = DefaultTextBandwidth
	}

	return TextMediaInfo{
		Codec:         codec,
		Language:      stream.Language,
		MediaFileName: stream.Output,
		Bandwidth:     bandwidth,
	}, nil
}

func (c *Collaborators) textParseFunc(stream descriptor.StreamDescriptor) handler.TextParseFunc {
	if c.TextParseFuncFor == nil {
		return nil
	}
	return c.TextParseFuncFor(stream)
}

func (c *Collaborators) textTransformFunc(stream descriptor.StreamDescriptor) handler.TextTransformFunc {
	if c.TextTransformFuncFor == nil {
		return nil
	}
	return c.TextTransformFuncFor(stream)
}

func (c *Collaborators) textSegmentWriteFunc(stream descriptor.StreamDescriptor) handler.TextSegmentWriteFunc {
	if c.TextSegmentWriteFuncFor == nil {
		return nil
	}
	return c.TextSegmentWriteFuncFor(stream)
}
