package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	packager "github.com/theassyrian/shaka-packager"
	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/testsupport"
)

func TestDefaultDemuxFuncForEmitsChunksThenEOS(t *testing.T) {
	const payloadSize = rawChunkSize + 10
	input := testsupport.NewInputFixture(t, payloadSize, 0x5a)

	demux := defaultDemuxFuncFor(packager.StreamDescriptor{StreamSelector: "video"})

	var samples []handler.Sample
	err := demux(context.Background(), input, func(selector string, sample handler.Sample) error {
		if selector != "video" {
			t.Fatalf("unexpected selector %q", selector)
		}
		samples = append(samples, sample)
		return nil
	})
	if err != nil {
		t.Fatalf("demux: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 2 data chunks + 1 EOS sample, got %d", len(samples))
	}
	if !samples[len(samples)-1].EOS {
		t.Fatal("expected final sample to carry EOS")
	}

	var total int
	for _, s := range samples {
		total += len(s.Data)
	}
	if total != payloadSize {
		t.Fatalf("expected %d bytes emitted, got %d", payloadSize, total)
	}
}

func TestDefaultMuxWriteFuncForWritesAndClosesOnEOS(t *testing.T) {
	tmp := t.TempDir()
	output := filepath.Join(tmp, "out.bin")

	muxFactory := defaultMuxWriteFuncFor(output)
	write := muxFactory(container.MediaContainer(0), packager.StreamDescriptor{})

	ctx := context.Background()
	if err := write(ctx, handler.Sample{Data: []byte("hello")}); err != nil {
		t.Fatalf("write data sample: %v", err)
	}
	if err := write(ctx, handler.Sample{EOS: true}); err != nil {
		t.Fatalf("write EOS sample: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected output %q, got %q", "hello", string(data))
	}
}

func TestDefaultMuxWriteFuncForPrefersStreamOutput(t *testing.T) {
	tmp := t.TempDir()
	fallback := filepath.Join(tmp, "fallback.bin")
	preferred := filepath.Join(tmp, "preferred.bin")

	muxFactory := defaultMuxWriteFuncFor(fallback)
	write := muxFactory(container.MediaContainer(0), packager.StreamDescriptor{Output: preferred})

	ctx := context.Background()
	if err := write(ctx, handler.Sample{Data: []byte("x")}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := write(ctx, handler.Sample{EOS: true}); err != nil {
		t.Fatalf("write EOS: %v", err)
	}

	if _, err := os.Stat(preferred); err != nil {
		t.Fatalf("expected stream output to be used: %v", err)
	}
	if _, err := os.Stat(fallback); err == nil {
		t.Fatal("did not expect fallback output to be created")
	}
}

func TestBuildRawKeySourceDecodesHex(t *testing.T) {
	source, err := buildRawKeySource("00112233445566778899aabbccddeef", "", "")
	if err == nil {
		t.Fatal("expected odd-length hex to fail decoding")
	}
	_ = source
}

func TestBuildRawKeySourceSucceeds(t *testing.T) {
	source, err := buildRawKeySource(
		"000102030405060708090a0b0c0d0e0f",
		"101112131415161718191a1b1c1d1e1f",
		"202122232425262728292a2b2c2d2e2f",
	)
	if err != nil {
		t.Fatalf("buildRawKeySource: %v", err)
	}
	key, err := source.GetKey(context.Background(), "any-label")
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if len(key.Key) != 16 || len(key.IV) != 16 || len(key.ID) != 16 {
		t.Fatalf("unexpected key material lengths: key=%d iv=%d id=%d", len(key.Key), len(key.IV), len(key.ID))
	}
}
