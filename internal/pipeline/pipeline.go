package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidmux/internal/download"
	"vidmux/internal/encode"
	"vidmux/internal/fileutil"
	"vidmux/internal/logging"
	"vidmux/internal/media/container"
	"vidmux/internal/services"
)

// Downloader is the remote acquisition capability the pipeline drives.
type Downloader interface {
	Fetch(ctx context.Context, req download.Request) error
	FetchAudio(ctx context.Context, url, outputTemplate string) error
}

// Result describes a finished acquisition. The caller owns Path and deletes
// it after delivery.
type Result struct {
	RequestID string
	Path      string
	Plan      Plan
	Codecs    Codecs
	SizeBytes int64
	Elapsed   time.Duration
}

// Pipeline drives one (url, target) request through download, selection,
// probing, conditional repair, planning, and execution. Instances are safe
// for concurrent use; every run works on files tagged with its own request
// identifier.
type Pipeline struct {
	workDir    string
	downloader Downloader
	prober     Prober
	encoder    encode.Runner
	logger     *slog.Logger
}

// New constructs a pipeline rooted at workDir.
func New(workDir string, d Downloader, p Prober, e encode.Runner, logger *slog.Logger) (*Pipeline, error) {
	workDir = strings.TrimSpace(workDir)
	if workDir == "" {
		return nil, errors.New("pipeline: work directory required")
	}
	if d == nil || p == nil || e == nil {
		return nil, errors.New("pipeline: downloader, prober, and encoder required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		workDir:    workDir,
		downloader: d,
		prober:     p,
		encoder:    e,
		logger:     logger,
	}, nil
}

// Run executes the full acquisition state machine. On success exactly one
// file remains under the work directory: the returned Result.Path. On any
// failure no pipeline-owned file survives.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	id := uuid.NewString()
	ctx = services.WithRequestID(ctx, id)
	log := logging.WithContext(ctx, p.logger).With(
		logging.String("url", req.URL),
		logging.String("target", string(req.Target)),
	)

	art, codecs, err := p.acquire(ctx, log, id, req)
	if err != nil {
		sweepTagged(p.workDir, id)
		return Result{}, err
	}

	art, codecs, err = p.normalize(ctx, log, id, req, art, codecs)
	if err != nil {
		sweepTagged(p.workDir, id)
		return Result{}, err
	}

	plan := Decide(codecs, art.Ext, req.Target)
	log.Info("delivery plan decided",
		logging.String("strategy", string(plan.Strategy)),
		logging.String("reason", plan.Reason),
	)

	finalPath, err := p.execute(ctx, log, id, req, art, plan)
	if err != nil {
		sweepTagged(p.workDir, id)
		return Result{}, err
	}

	result := Result{
		RequestID: id,
		Path:      finalPath,
		Plan:      plan,
		Codecs:    codecs,
		SizeBytes: fileutil.FileSize(finalPath),
		Elapsed:   time.Since(start),
	}
	log.Info("acquisition complete",
		logging.String("path", finalPath),
		logging.Int64("size_bytes", result.SizeBytes),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// acquire downloads the source and reduces the produced files to one probed
// video artifact.
func (p *Pipeline) acquire(ctx context.Context, log *slog.Logger, id string, req Request) (Artifact, Codecs, error) {
	ctx = services.WithStage(ctx, "download")

	fetchReq := download.Request{
		URL:            req.URL,
		OutputTemplate: filepath.Join(p.workDir, id+".%(ext)s"),
		MergeContainer: mergeContainerFor(req.Target),
	}
	if err := p.downloader.Fetch(ctx, fetchReq); err != nil {
		// A nonzero exit can still leave a usable file behind; selection
		// below is the authority on whether the download failed.
		log.Warn("fetch reported failure, checking for artifacts", logging.Error(err))
	}

	art, err := SelectArtifact(p.workDir, id)
	if err != nil {
		return Artifact{}, Codecs{}, err
	}
	// The download may have produced siblings (video-only, audio-only,
	// thumbnails); only the chosen artifact lives on.
	sweepTagged(p.workDir, id, art.Path)

	if art.Kind == KindAudioOnly {
		return Artifact{}, Codecs{}, services.Wrap(services.ErrVideoStreamAbsent, "pipeline", "select",
			fmt.Sprintf("source yielded only an audio track (%s)", art.Ext), nil)
	}

	codecs := p.prober.Probe(services.WithStage(ctx, "probe"), art.Path)
	log.Info("artifact selected",
		logging.String("ext", art.Ext),
		logging.Int64("size_bytes", art.SizeBytes),
		logging.String("video_codec", displayCodec(codecs.Video)),
		logging.String("audio_codec", displayCodec(codecs.Audio)),
	)
	return art, codecs, nil
}

// normalize applies the conditional repair stages, re-probing after every
// artifact replacement.
func (p *Pipeline) normalize(ctx context.Context, log *slog.Logger, id string, req Request, art Artifact, codecs Codecs) (Artifact, Codecs, error) {
	if codecs.Audio == "" {
		repaired, err := p.repairAudio(services.WithStage(ctx, "audio-repair"), log, id, req.URL, art)
		if err != nil {
			return Artifact{}, Codecs{}, err
		}
		art = repaired
		codecs = p.prober.Probe(services.WithStage(ctx, "probe"), art.Path)
	}

	if needsAudioFix(req.Target, art, codecs) {
		fixed, err := p.fixAudioCompat(services.WithStage(ctx, "audio-compat"), log, id, req, art)
		if err != nil {
			return Artifact{}, Codecs{}, err
		}
		art = fixed
		codecs = p.prober.Probe(services.WithStage(ctx, "probe"), art.Path)
	}

	return art, codecs, nil
}

// repairAudio merges a freshly fetched audio track into a silent video
// artifact. The video stream is copied untouched.
func (p *Pipeline) repairAudio(ctx context.Context, log *slog.Logger, id, url string, art Artifact) (Artifact, error) {
	log.Info("audio track missing, fetching standalone audio")

	audioTag := id + "-audio"
	if err := p.downloader.FetchAudio(ctx, url, filepath.Join(p.workDir, audioTag+".%(ext)s")); err != nil {
		_ = fileutil.RemoveIfExists(art.Path)
		return Artifact{}, services.Wrap(services.ErrRepairFailed, "pipeline", "audio-repair", "fetch audio track", err)
	}

	audio, err := selectAudioArtifact(p.workDir, audioTag)
	if err != nil {
		_ = fileutil.RemoveIfExists(art.Path)
		return Artifact{}, services.Wrap(services.ErrRepairFailed, "pipeline", "audio-repair", "no audio track produced", err)
	}

	mergedPath := filepath.Join(p.workDir, id+"-merged."+art.Ext)
	if err := p.encoder.Run(ctx, encode.MergeArgs(art.Path, audio.Path, mergedPath)); err != nil {
		_ = fileutil.RemoveIfExists(mergedPath)
		_ = fileutil.RemoveIfExists(audio.Path)
		_ = fileutil.RemoveIfExists(art.Path)
		return Artifact{}, services.Wrap(services.ErrRepairFailed, "pipeline", "audio-repair", "merge", err)
	}

	_ = fileutil.RemoveIfExists(audio.Path)
	_ = fileutil.RemoveIfExists(art.Path)

	log.Info("audio track merged", logging.String("audio_ext", audio.Ext))
	return Artifact{
		Path:      mergedPath,
		Ext:       art.Ext,
		SizeBytes: fileutil.FileSize(mergedPath),
		Kind:      KindVideo,
	}, nil
}

// fixAudioCompat re-encodes only the audio track into the target's expected
// codec, inside a container matching the target extension.
func (p *Pipeline) fixAudioCompat(ctx context.Context, log *slog.Logger, id string, req Request, art Artifact) (Artifact, error) {
	log.Info("audio codec incompatible with target, re-encoding audio only")

	fixedPath := filepath.Join(p.workDir, id+"-audiofix."+req.Target.Ext())
	err := p.encoder.Run(ctx, encode.AudioFixArgs(art.Path, fixedPath, req.Target, req.Params.AudioBitrate))
	// The predecessor goes regardless of outcome once the attempt settles.
	if err != nil {
		_ = fileutil.RemoveIfExists(fixedPath)
		_ = fileutil.RemoveIfExists(art.Path)
		return Artifact{}, services.Wrap(services.ErrRepairFailed, "pipeline", "audio-compat", "re-encode audio", err)
	}
	_ = fileutil.RemoveIfExists(art.Path)

	return Artifact{
		Path:      fixedPath,
		Ext:       req.Target.Ext(),
		SizeBytes: fileutil.FileSize(fixedPath),
		Kind:      KindVideo,
	}, nil
}

// execute realizes the plan, replacing the artifact with the final output.
func (p *Pipeline) execute(ctx context.Context, log *slog.Logger, id string, req Request, art Artifact, plan Plan) (string, error) {
	ctx = services.WithStage(ctx, "execute")
	finalPath := filepath.Join(p.workDir, id+"-final."+req.Target.Ext())

	if plan.Strategy == StrategyCopy {
		if err := os.Rename(art.Path, finalPath); err != nil {
			_ = fileutil.RemoveIfExists(art.Path)
			return "", services.Wrap(services.ErrEncodeFailed, "pipeline", "copy", "rename artifact", err)
		}
		return finalPath, nil
	}

	if err := p.encoder.Run(ctx, encode.TranscodeArgs(art.Path, finalPath, req.Target, req.Params)); err != nil {
		_ = fileutil.RemoveIfExists(finalPath)
		_ = fileutil.RemoveIfExists(art.Path)
		return "", services.Wrap(services.ErrEncodeFailed, "pipeline", string(plan.Strategy), "ffmpeg run", err)
	}
	_ = fileutil.RemoveIfExists(art.Path)
	return finalPath, nil
}

// needsAudioFix reports whether the audio compatibility stage must run:
// strict-audio targets reject files whose audio codec is outside the
// target's family, and re-touch the container even when only the extension
// differs, because some players reject codec/container mismatches outright.
func needsAudioFix(target container.Target, art Artifact, codecs Codecs) bool {
	if !target.RequiresStrictAudio() {
		return false
	}
	return !target.AcceptsAudioCodec(codecs.Audio) || art.Ext != target.Ext()
}

// mergeContainerFor asks the downloader to merge into the requested
// container when it can hold a merged pair, maximizing the odds of a
// zero-cost copy plan.
func mergeContainerFor(target container.Target) string {
	switch target {
	case container.MP4, container.WebM, container.MKV:
		return target.Ext()
	default:
		return container.MP4.Ext()
	}
}
