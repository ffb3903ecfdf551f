package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/keysource"
	packager "github.com/theassyrian/shaka-packager"
)

// rawChunkSize is the read/write granularity the CLI's default demux/mux
// collaborators move data in, standing in for real container parsing the
// same way five82-spindle's internal/fileutil streams bytes in fixed-size
// blocks rather than understanding their structure.
const rawChunkSize = 64 * 1024

// defaultDemuxFuncFor returns a DemuxFunc that reads stream.Input in fixed
// chunks and emits one Sample per chunk under stream.StreamSelector. It
// does not parse any container format; actual demuxing is an external
// collaborator the CLI leaves unimplemented by design, so this gives `run`
// something byte-accurate to move without claiming real codec awareness.
func defaultDemuxFuncFor(stream packager.StreamDescriptor) handler.DemuxFunc {
	selector := stream.StreamSelector
	return func(ctx context.Context, input string, emit func(selector string, sample handler.Sample) error) error {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input %s: %w", input, err)
		}
		defer f.Close()

		buf := make([]byte, rawChunkSize)
		var pts int64
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, readErr := f.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				if err := emit(selector, handler.Sample{PTS: pts, Duration: int64(n), Data: data}); err != nil {
					return err
				}
				pts += int64(n)
			}
			if readErr == io.EOF {
				return emit(selector, handler.Sample{PTS: pts, EOS: true})
			}
			if readErr != nil {
				return fmt.Errorf("read input %s: %w", input, readErr)
			}
		}
	}
}

// defaultMuxWriteFuncFor returns a MuxWriteFunc that appends each sample's
// bytes to a single output file opened once per muxer, mirroring
// defaultDemuxFuncFor's "move bytes, don't parse them" stance.
func defaultMuxWriteFuncFor(output string) func(container.MediaContainer, packager.StreamDescriptor) handler.MuxWriteFunc {
	return func(_ container.MediaContainer, stream packager.StreamDescriptor) handler.MuxWriteFunc {
		target := stream.Output
		if target == "" {
			target = output
		}
		var f *os.File
		return func(ctx context.Context, sample handler.Sample) error {
			if f == nil {
				opened, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create output %s: %w", target, err)
				}
				f = opened
			}
			if sample.EOS {
				return f.Close()
			}
			if _, err := f.Write(sample.Data); err != nil {
				return fmt.Errorf("write output %s: %w", target, err)
			}
			return nil
		}
	}
}

// buildRawKeySource wraps a single hex-encoded key/IV/key-ID triple in a
// keysource.MemoSource that returns it for every label, the CLI's stand-in
// for a real key-server client (none exists anywhere in the example
// corpus; see DESIGN.md).
func buildRawKeySource(keyHex, ivHex, keyIDHex string) (keysource.KeySource, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode --key: %w", err)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, fmt.Errorf("decode --iv: %w", err)
	}
	id, err := hex.DecodeString(keyIDHex)
	if err != nil {
		return nil, fmt.Errorf("decode --key-id: %w", err)
	}
	fixed := keysource.Key{ID: id, Key: key, IV: iv}
	return keysource.NewMemoSource(func(context.Context, string) (keysource.Key, error) {
		return fixed, nil
	}), nil
}
