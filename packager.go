package packager

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/gofrs/flock"

	"github.com/theassyrian/shaka-packager/internal/callbackfile"
	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
	"github.com/theassyrian/shaka-packager/internal/graph"
	"github.com/theassyrian/shaka-packager/internal/jobmanager"
	"github.com/theassyrian/shaka-packager/internal/keysource"
	"github.com/theassyrian/shaka-packager/internal/language"
	"github.com/theassyrian/shaka-packager/internal/logging"
	"github.com/theassyrian/shaka-packager/internal/manifest"
	"github.com/theassyrian/shaka-packager/internal/preflight"
	"github.com/theassyrian/shaka-packager/internal/syncpoint"
	"github.com/theassyrian/shaka-packager/internal/version"
)

// Status is the enumerated classification of a facade error, re-exported
// from internal/errors so callers never need to import it directly.
type Status = pkgerrors.Status

const (
	StatusOK              = pkgerrors.StatusOK
	StatusInvalidArgument = pkgerrors.StatusInvalidArgument
	StatusUnimplemented   = pkgerrors.StatusUnimplemented
	StatusFileFailure     = pkgerrors.StatusFileFailure
	StatusParserFailure   = pkgerrors.StatusParserFailure
)

// ToStatus classifies err against the sentinel taxonomy in internal/errors.
func ToStatus(err error) Status {
	return pkgerrors.ToStatus(err)
}

// lifecycleState is the packager's position in the Uninitialized ->
// Initialized -> Running -> Completed state machine, with Cancelled
// reachable from Initialized or Running.
type lifecycleState int

const (
	stateUninitialized lifecycleState = iota
	stateInitialized
	stateRunning
	stateCompleted
	stateCancelled
)

func (s lifecycleState) String() string {
	switch s {
	case stateUninitialized:
		return "Uninitialized"
	case stateInitialized:
		return "Initialized"
	case stateRunning:
		return "Running"
	case stateCompleted:
		return "Completed"
	case stateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Packager is the orchestration core's public facade. The zero value is
// not usable; construct one with New.
type Packager struct {
	mu    sync.Mutex
	state lifecycleState

	logger          *slog.Logger
	jobManager      *jobmanager.Manager
	mpdNotifier     manifest.MpdNotifier
	hlsNotifier     manifest.HlsNotifier
	lock            *flock.Flock
	runCtx          context.Context
	injectedVersion string
}

// New creates an uninitialized Packager.
func New() *Packager {
	return &Packager{state: stateUninitialized}
}

var oneShotSetup sync.Once

// runOneShotSetup performs process-lifetime initialization exactly once,
// lazily, on the first call to Initialize across every Packager instance,
// mirroring the original's base::AtExitManager and libcrypto threading
// setup: both are genuinely process-global rather than per-instance state.
func runOneShotSetup(logger *slog.Logger) {
	oneShotSetup.Do(func() {
		logger.Debug("packager: one-shot process setup complete")
		warmCryptoRand()
	})
}

// warmCryptoRand touches the process's CSPRNG once up front so the first
// real key-source read isn't the one that pays for kernel entropy pool
// initialization.
func warmCryptoRand() {
	var probe [1]byte
	_, _ = rand.Read(probe[:])
}

// Initialize validates params and descriptors, compiles them into a wired
// handler graph, and readies the job manager to run.
func (p *Packager) Initialize(params PackagingParams, descriptors []StreamDescriptor) error {
	p.mu.Lock()
	if p.state != stateUninitialized {
		p.mu.Unlock()
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "packager", "Initialize", "already initialized", nil)
	}
	p.mu.Unlock()

	logger := params.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	runOneShotSetup(logger)

	if err := p.acquireOutputLock(params.TempDir); err != nil {
		return err
	}

	callbacks := callbackfile.NewRegistry(params.BufferCallback)

	normalized, err := normalizeDescriptors(descriptors, callbacks)
	if err != nil {
		p.releaseOutputLock()
		return err
	}

	mpdOutput := callbacks.Rewrite(params.Mpd.MpdOutput)
	hlsOutput := callbacks.Rewrite(params.Hls.MasterPlaylistOutput)

	validation := graph.ValidationParams{
		SegmentSapAligned:       params.Chunking.SegmentSapAligned,
		SubsegmentSapAligned:    params.Chunking.SubsegmentSapAligned,
		OutputMediaInfo:         params.OutputMediaInfo,
		DumpStreamInfo:          params.Test.DumpStreamInfo,
		HLSMasterPlaylistOutput: hlsOutput,
		HLSPlaylistTypeVOD:      params.Hls.IsVOD(),
	}
	warn := func(message string) {
		logger.Warn(message, logging.String(logging.FieldComponent, "graph"))
	}
	if err := graph.ValidateParams(validation, normalized, warn); err != nil {
		p.releaseOutputLock()
		return err
	}

	if params.TempDir != "" && !callbackfile.IsCallbackFile(params.TempDir) {
		for _, result := range preflight.RunAll(params.TempDir) {
			if !result.Passed {
				p.releaseOutputLock()
				return pkgerrors.Wrap(pkgerrors.ErrFileFailure, "packager", "Initialize", result.Detail, nil)
			}
		}
	}

	encryptionSource, err := resolveKeySource("encryption", params.Encryption.KeyProvider, params.Encryption.KeySource)
	if err != nil {
		p.releaseOutputLock()
		return err
	}
	decryptionSource, err := resolveKeySource("decryption", params.Decryption.KeyProvider, params.Decryption.KeySource)
	if err != nil {
		p.releaseOutputLock()
		return err
	}

	writeMpd := params.Collaborators.WriteMpd
	if writeMpd == nil {
		writeMpd = defaultMpdWriter
	}
	writeHls := params.Collaborators.WriteHls
	if writeHls == nil {
		writeHls = defaultHlsWriter
	}
	mpdNotifier := manifest.NewMpdNotifier(mpdOutput, writeMpd)
	hlsNotifier := manifest.NewHlsNotifier(hlsOutput, writeHls)

	listenerFactory := &manifest.ListenerFactory{
		Mpd:           mpdNotifier,
		Hls:           hlsNotifier,
		DumpMediaInfo: params.OutputMediaInfo,
	}

	var syncPoints *syncpoint.Queue
	if len(params.AdCueGenerator.CuePoints) > 0 {
		points := append([]float64(nil), params.AdCueGenerator.CuePoints...)
		sort.Float64s(points)
		syncPoints = syncpoint.New(points)
	}

	collaborators := &graph.Collaborators{
		DemuxFuncFor:            params.Collaborators.DemuxFuncFor,
		MuxWriteFuncFor:         params.Collaborators.MuxWriteFuncFor,
		TextParseFuncFor:        params.Collaborators.TextParseFuncFor,
		TextTransformFuncFor:    params.Collaborators.TextTransformFuncFor,
		TextSegmentWriteFuncFor: params.Collaborators.TextSegmentWriteFuncFor,
		CopyFile:                params.Collaborators.CopyFile,
		DetermineTextFileCodec:  params.Collaborators.DetermineTextFileCodec,
		WriteMediaInfo:          params.Collaborators.WriteMediaInfo,
		EncryptionKeySource:     encryptionSource,
		EncryptionParams:        params.Encryption.EncryptionParams,
		DecryptionKeySource:     decryptionSource,
		ListenerFactory:         listenerFactory,
		SyncPoints:              syncPoints,
		OutputMediaInfo:         params.OutputMediaInfo,
		MediaInfoSuffix:         params.Collaborators.MediaInfoSuffix,
	}

	jm := jobmanager.New()
	if err := graph.BuildAll(normalized, params.Chunking, collaborators, mpdNotifier, jm); err != nil {
		p.releaseOutputLock()
		return err
	}
	if err := jm.InitializeJobs(); err != nil {
		p.releaseOutputLock()
		return err
	}

	runCtx := params.Context
	if runCtx == nil {
		runCtx = context.Background()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != stateUninitialized {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "packager", "Initialize", "already initialized", nil)
	}
	p.logger = logger
	p.jobManager = jm
	p.mpdNotifier = mpdNotifier
	p.hlsNotifier = hlsNotifier
	p.runCtx = runCtx
	p.injectedVersion = params.Test.InjectedLibraryVersion
	p.state = stateInitialized
	return nil
}

// Run drives every registered job root to completion, blocking until all
// succeed or one fails. On success it flushes the HLS notifier then the
// MPD notifier, in that order.
func (p *Packager) Run() error {
	p.mu.Lock()
	if p.state != stateInitialized {
		p.mu.Unlock()
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "packager", "Run", "not initialized", nil)
	}
	p.state = stateRunning
	jm := p.jobManager
	ctx := p.runCtx
	hls := p.hlsNotifier
	mpd := p.mpdNotifier
	p.mu.Unlock()

	runErr := jm.RunJobs(ctx)

	p.mu.Lock()
	if p.state == stateRunning {
		p.state = stateCompleted
	}
	p.mu.Unlock()
	p.releaseOutputLock()

	if runErr != nil {
		return runErr
	}

	if err := hls.Flush(); err != nil {
		return err
	}
	return mpd.Flush()
}

// Cancel signals every in-flight job root to stop. It is permitted from
// any state and is a no-op before Initialize.
func (p *Packager) Cancel() {
	p.mu.Lock()
	jm := p.jobManager
	if p.state == stateInitialized || p.state == stateRunning {
		p.state = stateCancelled
	}
	p.mu.Unlock()

	if jm != nil {
		jm.CancelJobs()
	}
}

// LibraryVersion returns the packaging core's build version string.
func LibraryVersion() string {
	return version.String()
}

// LibraryVersion returns this instance's TestParams.InjectedLibraryVersion
// override when Initialize set one, else the package-level LibraryVersion.
func (p *Packager) LibraryVersion() string {
	p.mu.Lock()
	override := p.injectedVersion
	p.mu.Unlock()
	if override != "" {
		return override
	}
	return LibraryVersion()
}

// DefaultStreamLabel classifies a stream into AUDIO/SD/HD/UHD1/UHD2,
// re-exported from internal/keysource so callers building a custom
// StreamLabelFunc don't need to import it directly.
func DefaultStreamLabel(maxSD, maxHD, maxUHD1 int, attrs keysource.EncryptedStreamAttributes) string {
	return keysource.DefaultStreamLabel(maxSD, maxHD, maxUHD1, attrs)
}

func resolveKeySource(direction, keyProvider string, source keysource.KeySource) (keysource.KeySource, error) {
	if keyProvider == keysource.KeyProviderNone {
		return nil, nil
	}
	if source == nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "packager", "Initialize",
			fmt.Sprintf("%s key_provider %q set but no KeySource supplied", direction, keyProvider), nil)
	}
	return source, nil
}

// normalizeDescriptors rewrites callback-file paths and normalizes
// languages, returning a fresh slice so the caller's original descriptors
// are never mutated.
func normalizeDescriptors(descriptors []StreamDescriptor, callbacks *callbackfile.Registry) ([]StreamDescriptor, error) {
	out := make([]StreamDescriptor, len(descriptors))
	for i, d := range descriptors {
		clone := d.Clone()
		clone.Input = callbacks.Rewrite(clone.Input)
		clone.Output = callbacks.Rewrite(clone.Output)
		clone.SegmentTemplate = callbacks.Rewrite(clone.SegmentTemplate)

		normalizedLanguage, err := language.NormalizeToISO6392(clone.Language)
		if err != nil {
			return nil, err
		}
		clone.Language = normalizedLanguage
		out[i] = clone
	}
	return out, nil
}

func (p *Packager) acquireOutputLock(tempDir string) error {
	if tempDir == "" || callbackfile.IsCallbackFile(tempDir) {
		return nil
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrFileFailure, "packager", "Initialize", "failed to create temp_dir", err)
	}

	lockPath := tempDir + string(os.PathSeparator) + ".packager.lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrFileFailure, "packager", "Initialize", "failed to acquire output directory lock", err)
	}
	if !ok {
		return pkgerrors.Wrap(pkgerrors.ErrFileFailure, "packager", "Initialize",
			"another packager instance already owns "+tempDir, nil)
	}

	p.mu.Lock()
	p.lock = lock
	p.mu.Unlock()
	return nil
}

func (p *Packager) releaseOutputLock() {
	p.mu.Lock()
	lock := p.lock
	p.lock = nil
	p.mu.Unlock()
	if lock != nil {
		_ = lock.Unlock()
	}
}
