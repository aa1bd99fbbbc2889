package models

import "time"

// SongSection is one structural part of a chord chart (verse, chorus, ...)
// with its lyrics and chord progression lines.
type SongSection struct {
	Type          string   `json:"type" firestore:"type"` // Intro, Verse, Chorus, Bridge, Outro, ...
	Lyrics        []string `json:"lyrics" firestore:"lyrics"`
	Chords        []string `json:"chords" firestore:"chords"`
	RhythmPattern string   `json:"rhythmPattern,omitempty" firestore:"rhythmPattern"`
	KeyChange     string   `json:"keyChange,omitempty" firestore:"keyChange"`
}

// MusicTheory carries key/tempo information for a song.
type MusicTheory struct {
	Key           string `json:"key" firestore:"key"`
	Tempo         int    `json:"tempo,omitempty" firestore:"tempo"`
	TimeSignature string `json:"timeSignature,omitempty" firestore:"timeSignature"`
	Capo          int    `json:"capo,omitempty" firestore:"capo"`
}

// Song is a read-mostly content record in the `songs` collection.
type Song struct {
	ID          string        `json:"id" firestore:"-"`
	Title       string        `json:"title" firestore:"title"`
	Artist      string        `json:"artist" firestore:"artist"`
	ArtistID    string        `json:"artistId,omitempty" firestore:"artistId"`
	Album       string        `json:"album,omitempty" firestore:"album"`
	AlbumID     string        `json:"albumId,omitempty" firestore:"albumId"`
	CoverURL    string        `json:"coverUrl,omitempty" firestore:"coverUrl"`
	Description string        `json:"description,omitempty" firestore:"description"`
	ReleaseYear int           `json:"releaseYear,omitempty" firestore:"releaseYear"`
	Genre       []string      `json:"genre,omitempty" firestore:"genre"`
	Mood        []string      `json:"mood,omitempty" firestore:"mood"`
	Duration    string        `json:"duration,omitempty" firestore:"duration"`
	Sections    []SongSection `json:"sections,omitempty" firestore:"sections"`
	Theory      MusicTheory   `json:"theory" firestore:"theory"`

	Metadata ContentMetadata `json:"metadata" firestore:"metadata"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Artist is a read-mostly content record in the `artists` collection.
type Artist struct {
	ID       string `json:"id" firestore:"-"`
	Name     string `json:"name" firestore:"name"`
	Bio      string `json:"bio,omitempty" firestore:"bio"`
	ImageURL string `json:"imageUrl,omitempty" firestore:"imageUrl"`
}

// Album is a read-mostly content record in the `albums` collection.
type Album struct {
	ID          string `json:"id" firestore:"-"`
	Title       string `json:"title" firestore:"title"`
	ArtistID    string `json:"artistId" firestore:"artistId"`
	CoverURL    string `json:"coverUrl,omitempty" firestore:"coverUrl"`
	ReleaseYear int    `json:"releaseYear,omitempty" firestore:"releaseYear"`
}
