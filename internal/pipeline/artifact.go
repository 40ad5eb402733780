package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vidmux/internal/fileutil"
	"vidmux/internal/media/container"
	"vidmux/internal/services"
)

// Kind classifies a downloaded artifact by its container family.
type Kind string

const (
	KindVideo     Kind = "video"
	KindAudioOnly Kind = "audio-only"
)

// Artifact is one file owned by the pipeline. Artifacts are replaced, never
// mutated; each replacement deletes its predecessor so at most one lives at
// any step.
type Artifact struct {
	Path      string
	Ext       string
	SizeBytes int64
	Kind      Kind
}

// SelectArtifact reduces the files tagged with the given request identifier
// to the single most relevant one. Files are ranked by size descending
// (partials and thumbnails are far smaller than real media); the first entry
// with a recognized video extension wins, falling back to the first with a
// recognized audio extension. Anything else means the download produced
// nothing usable.
//
// Selection is read-only; the caller sweeps the losers.
func SelectArtifact(dir, id string) (Artifact, error) {
	entries, err := taggedFiles(dir, id)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrNoSourceArtifact, "pipeline", "select", "list artifacts", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SizeBytes > entries[j].SizeBytes
	})

	for _, entry := range entries {
		if container.IsVideoExt(entry.Ext) {
			entry.Kind = KindVideo
			return entry, nil
		}
	}
	for _, entry := range entries {
		if container.IsAudioExt(entry.Ext) {
			entry.Kind = KindAudioOnly
			return entry, nil
		}
	}

	return Artifact{}, services.Wrap(services.ErrNoSourceArtifact, "pipeline", "select", "no recognized media under tag "+id, nil)
}

// selectAudioArtifact picks the largest recognized audio file under the
// given tag. Used by the audio repair stage to locate the standalone track
// it just fetched.
func selectAudioArtifact(dir, tag string) (Artifact, error) {
	entries, err := taggedFiles(dir, tag)
	if err != nil {
		return Artifact{}, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SizeBytes > entries[j].SizeBytes
	})

	for _, entry := range entries {
		if container.IsAudioExt(entry.Ext) {
			entry.Kind = KindAudioOnly
			return entry, nil
		}
	}
	return Artifact{}, fmt.Errorf("no audio file under tag %s", tag)
}

// taggedFiles lists regular files whose name starts with "<id>." in dir.
func taggedFiles(dir, id string) ([]Artifact, error) {
	matches, err := filepath.Glob(filepath.Join(dir, id+".*"))
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Path:      path,
			Ext:       strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")),
			SizeBytes: info.Size(),
		})
	}
	return artifacts, nil
}

// sweepTagged removes every file tagged with id except the listed survivors.
func sweepTagged(dir, id string, keep ...string) {
	survivors := make(map[string]struct{}, len(keep))
	for _, path := range keep {
		survivors[path] = struct{}{}
	}
	matches, _ := filepath.Glob(filepath.Join(dir, id+"*"))
	for _, path := range matches {
		if _, ok := survivors[path]; ok {
			continue
		}
		_ = fileutil.RemoveIfExists(path)
	}
}
