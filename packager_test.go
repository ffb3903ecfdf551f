package packager

import (
	"context"
	"testing"

	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/keysource"
	"github.com/theassyrian/shaka-packager/internal/testsupport"
)

func stubDemuxFuncFor(StreamDescriptor) handler.DemuxFunc {
	return func(ctx context.Context, input string, emit func(selector string, sample handler.Sample) error) error {
		if err := emit("video", handler.Sample{PTS: 0, Duration: 1000, KeyFrame: true, Data: []byte("frame")}); err != nil {
			return err
		}
		return emit("video", handler.Sample{PTS: 1000, Duration: 1000, EOS: true})
	}
}

func stubMuxWriteFuncFor(container.MediaContainer, StreamDescriptor) handler.MuxWriteFunc {
	return func(ctx context.Context, sample handler.Sample) error { return nil }
}

func minimalParams() PackagingParams {
	return PackagingParams{
		Collaborators: Collaborators{
			DemuxFuncFor:    stubDemuxFuncFor,
			MuxWriteFuncFor: stubMuxWriteFuncFor,
		},
	}
}

func TestNewIsUninitialized(t *testing.T) {
	p := New()
	if err := p.Run(); err == nil {
		t.Fatal("expected Run before Initialize to fail")
	}
}

func TestInitializeRejectsEmptyDescriptors(t *testing.T) {
	p := New()
	if err := p.Initialize(minimalParams(), nil); err == nil {
		t.Fatal("expected empty descriptor list to be rejected")
	}
}

func TestInitializeThenRunSucceeds(t *testing.T) {
	p := New()
	descriptors := []StreamDescriptor{
		testsupport.NewStreamDescriptor("in.mp4", "video", "out.mp4"),
	}
	if err := p.Initialize(minimalParams(), descriptors); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestInitializeTwiceFails(t *testing.T) {
	p := New()
	descriptors := []StreamDescriptor{
		testsupport.NewStreamDescriptor("in.mp4", "video", "out.mp4"),
	}
	params := minimalParams()
	if err := p.Initialize(params, descriptors); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := p.Initialize(params, descriptors); err == nil {
		t.Fatal("expected second Initialize to fail")
	}
}

func TestRunBeforeInitializeFails(t *testing.T) {
	p := New()
	if err := p.Run(); err == nil {
		t.Fatal("expected Run before Initialize to fail")
	}
}

func TestCancelBeforeInitializeIsNoop(t *testing.T) {
	p := New()
	p.Cancel()
}

func TestCancelAfterInitializeEntersCancelled(t *testing.T) {
	p := New()
	descriptors := []StreamDescriptor{
		testsupport.NewStreamDescriptor("in.mp4", "video", "out.mp4"),
	}
	if err := p.Initialize(minimalParams(), descriptors); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	p.Cancel()
	if p.state != stateCancelled {
		t.Fatalf("expected Cancelled state, got %s", p.state)
	}
}

func TestEncryptionRequiresKeySource(t *testing.T) {
	p := New()
	params := minimalParams()
	params.Encryption.KeyProvider = "raw"
	descriptors := []StreamDescriptor{
		testsupport.NewStreamDescriptor("in.mp4", "video", "out.mp4"),
	}
	if err := p.Initialize(params, descriptors); err == nil {
		t.Fatal("expected missing KeySource with key_provider set to fail Initialize")
	}
}

func TestEncryptionWithKeySourceSucceeds(t *testing.T) {
	p := New()
	params := minimalParams()
	params.Encryption.KeyProvider = "raw"
	params.Encryption.KeySource = testsupport.NewKeySource(t)
	descriptors := []StreamDescriptor{
		testsupport.NewStreamDescriptor("in.mp4", "video", "out.mp4"),
	}
	if err := p.Initialize(params, descriptors); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestLibraryVersionInjectedOverride(t *testing.T) {
	p := New()
	params := minimalParams()
	params.Test.InjectedLibraryVersion = "v9.9.9-test"
	descriptors := []StreamDescriptor{
		testsupport.NewStreamDescriptor("in.mp4", "video", "out.mp4"),
	}
	if err := p.Initialize(params, descriptors); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if got := p.LibraryVersion(); got != "v9.9.9-test" {
		t.Fatalf("LibraryVersion() = %q, want injected override", got)
	}
}

func TestLibraryVersionFallsBackToPackageLevel(t *testing.T) {
	if LibraryVersion() == "" {
		t.Fatal("expected non-empty package-level LibraryVersion")
	}
}

func TestDefaultStreamLabelDelegates(t *testing.T) {
	label := DefaultStreamLabel(0, 0, 0, keysource.EncryptedStreamAttributes{StreamType: keysource.Audio})
	if label == "" {
		t.Fatal("expected non-empty label")
	}
}
