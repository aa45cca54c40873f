package mediainfo

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Kind distinguishes movies from TV episodes.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindEpisode Kind = "episode"
)

// Match records which structural signal the classifier found.
type Match string

const (
	// MatchEpisode means a season/episode token was found.
	MatchEpisode Match = "episode"
	// MatchYear means a release year token was found.
	MatchYear Match = "year"
	// MatchNone means no structure was found and the whole stem became an
	// undated movie title.
	MatchNone Match = "none"
)

// UnknownTitle replaces titles that are empty after cleanup.
const UnknownTitle = "Unknown"

// Metadata is the result of classifying a filename.
type Metadata struct {
	OriginalName string
	Title        string
	Kind         Kind
	Year         int
	Season       int
	Episode      int
	Resolution   string
	Extension    string
	Match        Match
}

// IsEpisode reports whether the metadata describes a TV episode.
func (m Metadata) IsEpisode() bool {
	return m.Kind == KindEpisode
}

// EpisodeCode renders SxxEyy for episodes and "" otherwise.
func (m Metadata) EpisodeCode() string {
	if !m.IsEpisode() {
		return ""
	}
	return "S" + pad2(m.Season) + "E" + pad2(m.Episode)
}

var (
	episodePattern    = regexp.MustCompile(`(?i)s(\d{1,2})e(\d{1,2})`)
	yearPattern       = regexp.MustCompile(`(^|[^0-9])([\(\[]?)((?:19|20)\d{2})[\)\]]?(?:[^0-9]|$)`)
	resolutionPattern = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(720p|1080p|2160p|4k)(?:[^a-z0-9]|$)`)
	separatorPattern  = regexp.MustCompile(`[._-]+`)
)

// Classifier turns filenames into Metadata. The zero value is not usable; use
// NewClassifier.
type Classifier struct {
	caser *TitleCaser
}

// NewClassifier returns a classifier whose titles are normalized with caser.
// A nil caser uses the default minor-word set.
func NewClassifier(caser *TitleCaser) *Classifier {
	if caser == nil {
		caser = defaultCaser
	}
	return &Classifier{caser: caser}
}

var defaultClassifier = NewClassifier(nil)

// Classify parses a filename using the default title caser.
func Classify(filename string) Metadata {
	return defaultClassifier.Classify(filename)
}

// ClassifyPath classifies the base name of path using the default title caser.
func ClassifyPath(path string) Metadata {
	return defaultClassifier.ClassifyPath(path)
}

// Classify parses a filename into metadata. It never fails: filenames without
// an episode or year token become undated movies tagged MatchNone. The title
// is empty when nothing precedes the matched token; ClassifyPath fills it in.
func (c *Classifier) Classify(filename string) Metadata {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	meta := Metadata{
		OriginalName: stem,
		Extension:    ext,
		Resolution:   detectResolution(filename),
	}

	if season, episode, prefix, ok := matchEpisode(stem); ok {
		meta.Kind = KindEpisode
		meta.Match = MatchEpisode
		meta.Season = season
		meta.Episode = episode
		meta.Title = c.cleanTitle(prefix)
		return meta
	}

	if year, prefix, ok := matchYear(stem); ok {
		meta.Kind = KindMovie
		meta.Match = MatchYear
		meta.Year = year
		meta.Title = c.cleanTitle(prefix)
		return meta
	}

	meta.Kind = KindMovie
	meta.Match = MatchNone
	meta.Title = c.cleanTitle(stem)
	return meta
}

// ClassifyPath classifies the base name of path. When the cleaned title is
// empty (for example "S01E02.mkv") the parent directory name is used instead,
// and UnknownTitle when that is empty too.
func (c *Classifier) ClassifyPath(path string) Metadata {
	meta := c.Classify(filepath.Base(path))
	if meta.Title != "" {
		return meta
	}
	parent := filepath.Base(filepath.Dir(path))
	if parent != "." && parent != string(filepath.Separator) {
		meta.Title = c.cleanTitle(parent)
	}
	if meta.Title == "" {
		meta.Title = UnknownTitle
	}
	return meta
}

// CleanTitle applies separator cleanup and title normalization.
func (c *Classifier) CleanTitle(raw string) string {
	return c.cleanTitle(raw)
}

func (c *Classifier) cleanTitle(raw string) string {
	spaced := separatorPattern.ReplaceAllString(raw, " ")
	return c.caser.Normalize(strings.Join(strings.Fields(spaced), " "))
}

func matchEpisode(stem string) (season, episode int, prefix string, ok bool) {
	loc := episodePattern.FindStringSubmatchIndex(stem)
	if loc == nil {
		return 0, 0, "", false
	}
	season, err := strconv.Atoi(stem[loc[2]:loc[3]])
	if err != nil {
		return 0, 0, "", false
	}
	episode, err = strconv.Atoi(stem[loc[4]:loc[5]])
	if err != nil {
		return 0, 0, "", false
	}
	return season, episode, stem[:loc[0]], true
}

// matchYear returns the first year token whose preceding text is non-empty
// after cleanup, so "1917.2019" yields title "1917" and year 2019. When every
// year token starts the name, as in "(1999)", the first one is returned with
// an empty prefix.
func matchYear(stem string) (int, string, bool) {
	firstYear, found := 0, false
	for offset := 0; offset < len(stem); {
		loc := yearPattern.FindStringSubmatchIndex(stem[offset:])
		if loc == nil {
			break
		}
		year, err := strconv.Atoi(stem[offset+loc[6] : offset+loc[7]])
		if err == nil {
			prefix := stem[:offset+loc[4]]
			if strings.TrimSpace(separatorPattern.ReplaceAllString(prefix, " ")) != "" {
				return year, prefix, true
			}
			if !found {
				firstYear, found = year, true
			}
		}
		offset += loc[7]
	}
	return firstYear, "", found
}

func detectResolution(filename string) string {
	match := resolutionPattern.FindStringSubmatch(filename)
	if match == nil {
		return ""
	}
	token := strings.ToLower(match[1])
	if token == "4k" {
		return "4K"
	}
	return token
}

func pad2(value int) string {
	if value < 10 && value >= 0 {
		return "0" + strconv.Itoa(value)
	}
	return strconv.Itoa(value)
}
