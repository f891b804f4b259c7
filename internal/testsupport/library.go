package testsupport

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// BeetsAlbum is one fixture row for the beets albums table.
type BeetsAlbum struct {
	AlbumArtist string
	MBArtistID  string
	Album       string
}

// WriteBeetsFixture creates a minimal beets library database at path with the
// provided album rows.
func WriteBeetsFixture(t testing.TB, path string, albums []BeetsAlbum) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS albums (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        album TEXT,
        albumartist TEXT,
        mb_albumartistid TEXT
    )`)
	if err != nil {
		t.Fatalf("create albums table: %v", err)
	}

	for _, album := range albums {
		if _, err := db.Exec(
			`INSERT INTO albums (album, albumartist, mb_albumartistid) VALUES (?, ?, ?)`,
			album.Album, album.AlbumArtist, album.MBArtistID,
		); err != nil {
			t.Fatalf("insert fixture album: %v", err)
		}
	}
}
