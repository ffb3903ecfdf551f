package main

import (
	"log/slog"

	packager "github.com/theassyrian/shaka-packager"
	"github.com/theassyrian/shaka-packager/internal/config"
	"github.com/theassyrian/shaka-packager/internal/keysource"
)

// keyFlags carries the --key/--iv/--key-id (and decryption equivalents)
// flag values a run/validate command parsed, passed through to
// toPackagingParams so key-source construction stays out of the command
// handlers themselves.
type keyFlags struct {
	encryptionKey   string
	encryptionIV    string
	encryptionKeyID string
	decryptionKey   string
	decryptionIV    string
	decryptionKeyID string
}

// toPackagingParams converts a loaded config.Document plus any CLI-supplied
// raw key material into the facade's PackagingParams, wiring the CLI's
// fixed-chunk demux/mux collaborators (internal codec parsing is out of
// scope for this core; see DESIGN.md) and a raw key source when the
// document configures a key_provider.
func toPackagingParams(doc *config.Document, flags keyFlags, logger *slog.Logger) (packager.PackagingParams, error) {
	chunking := doc.Packaging.Chunking.ToHandlerParams()

	encryptionParams, err := doc.Packaging.Encryption.ToKeysourceParams()
	if err != nil {
		return packager.PackagingParams{}, err
	}

	var encryptionSource keysource.KeySource
	if encryptionParams.KeyProvider != keysource.KeyProviderNone {
		encryptionSource, err = buildRawKeySource(flags.encryptionKey, flags.encryptionIV, flags.encryptionKeyID)
		if err != nil {
			return packager.PackagingParams{}, err
		}
	}

	decryptionParams := doc.Packaging.Decryption.ToKeysourceParams()
	var decryptionSource keysource.KeySource
	if decryptionParams.KeyProvider != keysource.KeyProviderNone {
		decryptionSource, err = buildRawKeySource(flags.decryptionKey, flags.decryptionIV, flags.decryptionKeyID)
		if err != nil {
			return packager.PackagingParams{}, err
		}
	}

	hlsPlaylistType := packager.HlsPlaylistTypeVOD
	if !doc.Packaging.Hls.IsVOD() {
		hlsPlaylistType = packager.HlsPlaylistTypeLive
	}

	params := packager.PackagingParams{
		Chunking: chunking,
		Encryption: packager.EncryptionParams{
			EncryptionParams: encryptionParams,
			KeySource:        encryptionSource,
		},
		Decryption: packager.DecryptionParams{
			DecryptionParams: decryptionParams,
			KeySource:        decryptionSource,
		},
		Mp4Output: packager.Mp4OutputParams{GenerateSidx: doc.Packaging.Mp4Output.GenerateSidx},
		Mpd:       packager.MpdParams{MpdOutput: doc.Packaging.Mpd.MpdOutput},
		Hls: packager.HlsParams{
			MasterPlaylistOutput: doc.Packaging.Hls.MasterPlaylistOutput,
			PlaylistType:         hlsPlaylistType,
		},
		AdCueGenerator: packager.AdCueGeneratorParams{CuePoints: doc.Packaging.AdCueGenerator.CuePoints},
		Test: packager.TestParams{
			DumpStreamInfo:         doc.Packaging.TestParams.DumpStreamInfo,
			InjectedLibraryVersion: doc.Packaging.TestParams.InjectedLibraryVersion,
		},
		TempDir:         doc.Packaging.TempDir,
		OutputMediaInfo: doc.Packaging.OutputMediaInfo,
		Logger:          logger,
		Collaborators: packager.Collaborators{
			DemuxFuncFor:    defaultDemuxFuncFor,
			MuxWriteFuncFor: defaultMuxWriteFuncFor(doc.Packaging.Mpd.MpdOutput),
		},
	}
	return params, nil
}

func toStreamDescriptors(doc *config.Document) []packager.StreamDescriptor {
	return doc.ToDescriptors()
}
