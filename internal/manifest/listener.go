package manifest

// Listener is the callback sink a Muxer fires on new container, new
// segment, and finalization, bridging muxers to manifest notifiers without
// the muxer knowing which notifier (or none) is behind it.
type Listener struct {
	Representation Representation
	Mpd            MpdNotifier
	Hls            HlsNotifier
	DumpMediaInfo  bool
	MediaInfoPath  string
}

// OnNewContainer notifies both configured notifiers of a new container
// path for this listener's representation.
func (l *Listener) OnNewContainer(containerPath string) error {
	if l.Mpd != nil {
		if err := l.Mpd.NotifyNewContainer(l.Representation, containerPath); err != nil {
			return err
		}
	}
	if l.Hls != nil {
		if err := l.Hls.NotifyNewContainer(l.Representation, containerPath); err != nil {
			return err
		}
	}
	return nil
}

// OnNewSegment notifies both configured notifiers of a new emitted
// segment for this listener's representation.
func (l *Listener) OnNewSegment(seg Segment) error {
	if l.Mpd != nil {
		if err := l.Mpd.NotifyNewSegment(l.Representation.ID, seg); err != nil {
			return err
		}
	}
	if l.Hls != nil {
		if err := l.Hls.NotifyNewSegment(l.Representation.ID, seg); err != nil {
			return err
		}
	}
	return nil
}

// ListenerFactory builds a Listener for one stream descriptor's HLS fields
// and media-info-output setting, binding it to the shared MPD/HLS
// notifiers the facade constructed for the whole run.
type ListenerFactory struct {
	Mpd           MpdNotifier
	Hls           HlsNotifier
	DumpMediaInfo bool
}

// ListenerParams carries the per-descriptor fields the factory needs; it
// mirrors the HLS-related StreamDescriptor fields rather than depending on
// the descriptor package directly, keeping this package free of an import
// cycle with internal/descriptor and internal/graph.
type ListenerParams struct {
	RepresentationID   string
	Bandwidth          uint64
	Language           string
	HLSGroupID         string
	HLSName            string
	HLSPlaylistName    string
	HLSIframePlaylist  string
	OutputPath         string
}

// New builds a Listener for params, sharing this factory's notifiers.
func (f *ListenerFactory) New(params ListenerParams) *Listener {
	return &Listener{
		Representation: Representation{
			ID:                 params.RepresentationID,
			Bandwidth:          params.Bandwidth,
			Language:           params.Language,
			GroupID:            params.HLSGroupID,
			Name:               params.HLSName,
			PlaylistName:       params.HLSPlaylistName,
			IframePlaylistName: params.HLSIframePlaylist,
		},
		Mpd:           f.Mpd,
		Hls:           f.Hls,
		DumpMediaInfo: f.DumpMediaInfo,
		MediaInfoPath: params.OutputPath + ".media_info",
	}
}
