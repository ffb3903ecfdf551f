package config

const (
	defaultSegmentDurationSeconds    = 6.0
	defaultSubsegmentDurationSeconds = 2.0
	defaultHlsPlaylistType           = "VOD"
	defaultTempDir                   = "~/.cache/shaka-packager"
)

// Default returns a Document populated with repository defaults and an
// empty stream list; the caller supplies streams via TOML or by appending
// directly before calling Validate.
func Default() Document {
	return Document{
		Packaging: PackagingParams{
			Chunking: ChunkingParams{
				SegmentDurationSeconds:    defaultSegmentDurationSeconds,
				SubsegmentDurationSeconds: defaultSubsegmentDurationSeconds,
				SegmentSapAligned:         true,
			},
			Encryption: EncryptionParams{
				ProtectionScheme: "cenc",
			},
			Hls: HlsParams{
				PlaylistType: defaultHlsPlaylistType,
			},
			TempDir: defaultTempDir,
		},
	}
}
