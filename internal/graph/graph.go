package graph

import (
	"github.com/theassyrian/shaka-packager/internal/descriptor"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/manifest"
)

// BuildAll partitions descriptors into text and audio/video groups, sorts
// the audio/video group per descriptor.SortAudioVideo, and runs both graph
// builders, mirroring CreateAllJobs in the original source. Callers must
// have already run ValidateParams.
func BuildAll(descriptors []descriptor.StreamDescriptor, chunking handler.ChunkingParams, c *Collaborators, mpd manifest.MpdNotifier, jobs JobRegistrar) error {
	textStreams, avStreams := descriptor.Partition(descriptors)
	descriptor.SortAudioVideo(avStreams)

	if err := BuildText(textStreams, chunking, c, mpd, jobs); err != nil {
		return err
	}
	return BuildAudioVideo(avStreams, chunking, c, jobs)
}
