package config

import (
	"errors"
	"strings"
)

// Validate ensures the document is internally consistent enough to attempt
// conversion. It checks config-level knobs only; descriptor-level and
// cross-descriptor rules (spec.md §3 invariants 1-10) are enforced later by
// internal/graph.ValidateParams once the streams are converted, since those
// rules need the full descriptor set together.
func (doc *Document) Validate() error {
	if err := doc.validateChunking(); err != nil {
		return err
	}
	if err := doc.validateEncryption(); err != nil {
		return err
	}
	if err := doc.validateHls(); err != nil {
		return err
	}
	if err := doc.validateAdCueGenerator(); err != nil {
		return err
	}
	return nil
}

func (doc *Document) validateChunking() error {
	c := doc.Packaging.Chunking
	if c.SegmentDurationSeconds <= 0 {
		return errors.New("chunking_params.segment_duration_seconds must be positive")
	}
	if c.SubsegmentDurationSeconds < 0 {
		return errors.New("chunking_params.subsegment_duration_seconds must be >= 0")
	}
	if !c.SegmentSapAligned && c.SubsegmentSapAligned {
		return errors.New("chunking_params.subsegment_sap_aligned requires segment_sap_aligned")
	}
	return nil
}

func (doc *Document) validateEncryption() error {
	e := doc.Packaging.Encryption
	if !e.Enabled {
		return nil
	}
	if strings.TrimSpace(e.KeyProvider) == "" {
		return errors.New("encryption_params.key_provider must be set when encryption_params.enabled is true")
	}
	if _, err := parseProtectionScheme(e.ProtectionScheme); err != nil {
		return err
	}
	if e.ClearLeadSeconds < 0 {
		return errors.New("encryption_params.clear_lead_seconds must be >= 0")
	}
	if e.CryptoPeriodSeconds < 0 {
		return errors.New("encryption_params.crypto_period_seconds must be >= 0")
	}
	return nil
}

func (doc *Document) validateHls() error {
	switch doc.Packaging.Hls.PlaylistType {
	case "VOD", "LIVE":
		return nil
	default:
		return errors.New("hls_params.playlist_type must be VOD or LIVE")
	}
}

func (doc *Document) validateAdCueGenerator() error {
	points := doc.Packaging.AdCueGenerator.CuePoints
	for i, p := range points {
		if p < 0 {
			return errors.New("ad_cue_generator_params.cue_points must be non-negative")
		}
		if i > 0 && p <= points[i-1] {
			return errors.New("ad_cue_generator_params.cue_points must be strictly increasing")
		}
	}
	return nil
}
