package library

import (
	"fmt"
	"path/filepath"
	"strings"

	"medialink/internal/mediainfo"
	"medialink/internal/textutil"
)

// Destination is a resolved library location.
type Destination struct {
	Dir  string
	Name string
}

// Path joins the directory and file name.
func (d Destination) Path() string {
	return filepath.Join(d.Dir, d.Name)
}

// Resolver maps classified metadata onto the canonical library layout:
//
//	{movies}/{Title} ({Year})/{source filename}
//	{tv}/{Show}/Season NN/{Show} - SNNENN{ext}
type Resolver struct {
	moviesRoot string
	tvRoot     string
}

// NewResolver returns a resolver rooted at the given library directories.
func NewResolver(moviesRoot, tvRoot string) *Resolver {
	return &Resolver{
		moviesRoot: filepath.Clean(moviesRoot),
		tvRoot:     filepath.Clean(tvRoot),
	}
}

// MoviesRoot returns the movies library root.
func (r *Resolver) MoviesRoot() string { return r.moviesRoot }

// TVRoot returns the TV library root.
func (r *Resolver) TVRoot() string { return r.tvRoot }

// Resolve computes the destination for a classified file. sourceName is the
// base name of the staging file.
func (r *Resolver) Resolve(meta mediainfo.Metadata, sourceName string) Destination {
	if meta.IsEpisode() {
		return r.resolveEpisode(meta)
	}
	return r.resolveMovie(meta, sourceName)
}

func (r *Resolver) resolveMovie(meta mediainfo.Metadata, sourceName string) Destination {
	title := component(meta.Title)
	dirName := title
	if meta.Year > 0 {
		dirName = fmt.Sprintf("%s (%d)", title, meta.Year)
	}

	name := textutil.RemoveUnsafe(filepath.Base(sourceName))
	if strings.TrimSpace(strings.TrimSuffix(name, filepath.Ext(name))) == "" {
		name = mediainfo.UnknownTitle + meta.Extension
	}
	return Destination{
		Dir:  filepath.Join(r.moviesRoot, dirName),
		Name: name,
	}
}

func (r *Resolver) resolveEpisode(meta mediainfo.Metadata) Destination {
	show := component(meta.Title)
	return Destination{
		Dir:  filepath.Join(r.tvRoot, show, fmt.Sprintf("Season %02d", meta.Season)),
		Name: fmt.Sprintf("%s - S%02dE%02d%s", show, meta.Season, meta.Episode, textutil.StripUnsafe(meta.Extension)),
	}
}

// component sanitizes a single path component, substituting a placeholder
// when nothing usable remains. "." and ".." would escape the layout.
func component(value string) string {
	cleaned := textutil.StripUnsafe(value)
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return mediainfo.UnknownTitle
	}
	return cleaned
}
