package graph

import (
	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/descriptor"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/keysource"
)

// newEncryptionHandler implements §4.6: returns nil (not an error) when
// encryption should be skipped, per CreateEncryptionHandler in the original
// source.
func newEncryptionHandler(c *Collaborators, stream descriptor.StreamDescriptor) *handler.EncryptionHandler {
	if stream.SkipEncryption || c.EncryptionKeySource == nil {
		return nil
	}

	params := c.EncryptionParams

	switch descriptor.GetOutputFormat(stream) {
	case container.MPEG2TS, container.AAC, container.AC3, container.EAC3:
		params.ProtectionScheme = keysource.ProtectionSchemeAppleSampleAes
	}

	if stream.DrmLabel != "" {
		params.StreamLabelFunc = keysource.ConstantLabelFunc(stream.DrmLabel)
	} else if params.StreamLabelFunc == nil {
		params.StreamLabelFunc = keysource.NewDefaultStreamLabelFunc(
			keysource.DefaultMaxSDPixels, keysource.DefaultMaxHDPixels, keysource.DefaultMaxUHD1Pixels)
	}

	attrs := streamAttributes(stream)
	return handler.NewEncryptionHandler(params, c.EncryptionKeySource, attrs)
}

// streamAttributes derives the EncryptedStreamAttributes the default label
// function needs. Width/Height are not modeled on StreamDescriptor (they
// come from the demuxed stream info, an external collaborator concern);
// callers that need pixel-based classification supply their own
// StreamLabelFunc via Collaborators.EncryptionParams.
func streamAttributes(stream descriptor.StreamDescriptor) keysource.EncryptedStreamAttributes {
	streamType := keysource.Video
	if stream.StreamSelector == "audio" {
		streamType = keysource.Audio
	}
	return keysource.EncryptedStreamAttributes{StreamType: streamType}
}
