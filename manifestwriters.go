package packager

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/theassyrian/shaka-packager/internal/manifest"
)

// defaultMpdWriter renders a minimal DASH MPD: one Period, one
// AdaptationSet per representation, ordered by representation ID for
// deterministic output across runs. Manifest document encoding is named as
// an external collaborator in spec.md §1; this is the facade's built-in
// default, overridable via PackagingParams.Collaborators.WriteMpd.
func defaultMpdWriter(output string, segments map[string][]manifest.Segment, reps map[string]manifest.Representation) error {
	type mpdRepresentation struct {
		ID        string `xml:"id,attr"`
		Bandwidth uint64 `xml:"bandwidth,attr"`
	}
	type mpdAdaptationSet struct {
		Lang           string              `xml:"lang,attr,omitempty"`
		Representation []mpdRepresentation `xml:"Representation"`
	}
	type mpdPeriod struct {
		AdaptationSet []mpdAdaptationSet `xml:"AdaptationSet"`
	}
	type mpdRoot struct {
		XMLName xml.Name  `xml:"MPD"`
		Xmlns   string    `xml:"xmlns,attr"`
		Profile string    `xml:"profiles,attr"`
		Period  mpdPeriod `xml:"Period"`
	}

	root := mpdRoot{
		Xmlns:   "urn:mpeg:dash:schema:mpd:2011",
		Profile: "urn:mpeg:dash:profile:isoff-on-demand:2011",
	}
	for _, id := range sortedKeys(reps) {
		rep := reps[id]
		root.Period.AdaptationSet = append(root.Period.AdaptationSet, mpdAdaptationSet{
			Lang: rep.Language,
			Representation: []mpdRepresentation{{
				ID:        rep.ID,
				Bandwidth: rep.Bandwidth,
			}},
		})
	}

	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("packager: encode mpd: %w", err)
	}
	return os.WriteFile(output, append([]byte(xml.Header), data...), 0o644)
}

// defaultHlsWriter renders a minimal HLS master playlist listing one
// EXT-X-STREAM-INF entry per representation, in the order variants should
// be offered for adaptive switching (ascending bandwidth).
func defaultHlsWriter(output string, segments map[string][]manifest.Segment, reps map[string]manifest.Representation) error {
	var ordered []manifest.Representation
	for _, id := range sortedKeys(reps) {
		ordered = append(ordered, reps[id])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Bandwidth < ordered[j].Bandwidth
	})

	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:6\n")
	for _, rep := range ordered {
		fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d", rep.Bandwidth)
		if rep.GroupID != "" {
			fmt.Fprintf(&b, ",AUDIO=%q", rep.GroupID)
		}
		b.WriteByte('\n')
		name := rep.PlaylistName
		if name == "" {
			name = rep.ID + ".m3u8"
		}
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return os.WriteFile(output, []byte(b.String()), 0o644)
}

func sortedKeys(reps map[string]manifest.Representation) []string {
	keys := make([]string, 0, len(reps))
	for k := range reps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
