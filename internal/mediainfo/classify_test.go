package mediainfo_test

import (
	"testing"

	"medialink/internal/mediainfo"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		kind       mediainfo.Kind
		match      mediainfo.Match
		title      string
		year       int
		season     int
		episode    int
		resolution string
	}{
		{
			name:       "episode with resolution",
			filename:   "rick.and.morty.s08e01.1080p.web.h264.mkv",
			kind:       mediainfo.KindEpisode,
			match:      mediainfo.MatchEpisode,
			title:      "Rick and Morty",
			season:     8,
			episode:    1,
			resolution: "1080p",
		},
		{
			name:       "movie with year",
			filename:   "the.matrix.1999.1080p.mkv",
			kind:       mediainfo.KindMovie,
			match:      mediainfo.MatchYear,
			title:      "The Matrix",
			year:       1999,
			resolution: "1080p",
		},
		{
			name:     "episode wins over year",
			filename: "Doctor.Who.2005.S01E02.mkv",
			kind:     mediainfo.KindEpisode,
			match:    mediainfo.MatchEpisode,
			title:    "Doctor Who 2005",
			season:   1,
			episode:  2,
		},
		{
			name:     "bracketed year",
			filename: "Blade Runner [1982].mp4",
			kind:     mediainfo.KindMovie,
			match:    mediainfo.MatchYear,
			title:    "Blade Runner",
			year:     1982,
		},
		{
			name:       "parenthesized year",
			filename:   "Dune (2021) 2160p.mkv",
			kind:       mediainfo.KindMovie,
			match:      mediainfo.MatchYear,
			title:      "Dune",
			year:       2021,
			resolution: "2160p",
		},
		{
			name:     "year-like title followed by year",
			filename: "1917.2019.mkv",
			kind:     mediainfo.KindMovie,
			match:    mediainfo.MatchYear,
			title:    "1917",
			year:     2019,
		},
		{
			name:     "year inside a longer number is ignored",
			filename: "Some_Movie_x20201.avi",
			kind:     mediainfo.KindMovie,
			match:    mediainfo.MatchNone,
			title:    "Some Movie X20201",
		},
		{
			name:     "no structure",
			filename: "home_video-final.mov",
			kind:     mediainfo.KindMovie,
			match:    mediainfo.MatchNone,
			title:    "Home Video Final",
		},
		{
			name:       "uppercase episode token and 4k",
			filename:   "The_Office_S3E12_4K.mkv",
			kind:       mediainfo.KindEpisode,
			match:      mediainfo.MatchEpisode,
			title:      "The Office",
			season:     3,
			episode:    12,
			resolution: "4K",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := mediainfo.Classify(tt.filename)
			if meta.Kind != tt.kind {
				t.Fatalf("kind = %q, want %q", meta.Kind, tt.kind)
			}
			if meta.Match != tt.match {
				t.Fatalf("match = %q, want %q", meta.Match, tt.match)
			}
			if meta.Title != tt.title {
				t.Fatalf("title = %q, want %q", meta.Title, tt.title)
			}
			if meta.Year != tt.year {
				t.Fatalf("year = %d, want %d", meta.Year, tt.year)
			}
			if meta.Season != tt.season || meta.Episode != tt.episode {
				t.Fatalf("season/episode = %d/%d, want %d/%d", meta.Season, meta.Episode, tt.season, tt.episode)
			}
			if meta.Resolution != tt.resolution {
				t.Fatalf("resolution = %q, want %q", meta.Resolution, tt.resolution)
			}
		})
	}
}

func TestClassifyThreeDigitEpisodeKeepsLeadingDigits(t *testing.T) {
	meta := mediainfo.Classify("Show.s01e123.mkv")
	if !meta.IsEpisode() || meta.Match != mediainfo.MatchEpisode {
		t.Fatalf("expected episode, got %+v", meta)
	}
	if meta.Season != 1 || meta.Episode != 12 || meta.Title != "Show" {
		t.Fatalf("unexpected episode data %+v", meta)
	}
}

func TestClassifyYearWithoutTitle(t *testing.T) {
	for _, name := range []string{"(1999).mkv", "[2019].mp4", "2019.mkv"} {
		meta := mediainfo.Classify(name)
		if meta.Kind != mediainfo.KindMovie || meta.Match != mediainfo.MatchYear {
			t.Fatalf("%s: expected dated movie, got %+v", name, meta)
		}
		if meta.Year == 0 || meta.Title != "" {
			t.Fatalf("%s: expected year and empty title, got %+v", name, meta)
		}
	}

	meta := mediainfo.ClassifyPath("/staging/The.Matrix/(1999).mkv")
	if meta.Title != "The Matrix" || meta.Year != 1999 {
		t.Fatalf("expected parent title with year, got %+v", meta)
	}
	meta = mediainfo.ClassifyPath("(1999).mkv")
	if meta.Title != mediainfo.UnknownTitle || meta.Year != 1999 {
		t.Fatalf("expected unknown title with year, got %+v", meta)
	}
}

func TestClassifyKeepsOriginalNameAndExtension(t *testing.T) {
	meta := mediainfo.Classify("Movie.Name.2010.MKV")
	if meta.OriginalName != "Movie.Name.2010" {
		t.Fatalf("unexpected original name %q", meta.OriginalName)
	}
	if meta.Extension != ".MKV" {
		t.Fatalf("expected extension case preserved, got %q", meta.Extension)
	}
}

func TestClassifyYearOnlyForMovies(t *testing.T) {
	meta := mediainfo.Classify("Show.1999.S02E03.mkv")
	if meta.Year != 0 {
		t.Fatalf("episodes must not carry a year, got %d", meta.Year)
	}
	if meta.EpisodeCode() != "S02E03" {
		t.Fatalf("unexpected episode code %q", meta.EpisodeCode())
	}
}

func TestClassifyPathFallsBackToParent(t *testing.T) {
	meta := mediainfo.ClassifyPath("/staging/the.expanse/S01E02.mkv")
	if meta.Title != "The Expanse" {
		t.Fatalf("expected parent directory title, got %q", meta.Title)
	}
	if !meta.IsEpisode() || meta.Season != 1 || meta.Episode != 2 {
		t.Fatalf("unexpected episode data %+v", meta)
	}

	meta = mediainfo.ClassifyPath("S01E02.mkv")
	if meta.Title != mediainfo.UnknownTitle {
		t.Fatalf("expected unknown title, got %q", meta.Title)
	}
}

func TestClassifierUsesCustomCaser(t *testing.T) {
	classifier := mediainfo.NewClassifier(mediainfo.NewTitleCaser([]string{"vs"}))
	meta := classifier.Classify("alien.vs.predator.2004.mkv")
	if meta.Title != "Alien vs Predator" {
		t.Fatalf("unexpected title %q", meta.Title)
	}
}
