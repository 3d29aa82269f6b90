package library

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"git.lost.host/meutraa/circles/internal/beatmap"
)

type DefaultLibrary struct {
	Root string

	db *sql.DB
}

func (l *DefaultLibrary) Init() error {
	if l.Root == "" {
		l.Root = Home()
	}
	db, err := sql.Open("sqlite3", filepath.Join(l.Root, "index.db"))
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists beatmaps
	  (
		  id integer not null primary key,
		  path text unique,
		  title text,
		  artist text,
		  creator text,
		  version text,
		  mode integer
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	l.db = db
	return nil
}

func (l *DefaultLibrary) Deinit() {
	if nil != l.db {
		l.db.Close()
	}
}

func (l *DefaultLibrary) Rebuild() (int, error) {
	if _, err := l.db.Exec("delete from beatmaps"); nil != err {
		return 0, err
	}

	count := 0
	err := filepath.Walk(l.Root, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(p) != ".osu" {
			return nil
		}
		b, err := beatmap.Load(p)
		if nil != err {
			log.Println("skipping", p, err)
			return nil
		}
		_, err = l.db.Exec(
			"insert or replace into beatmaps(path, title, artist, creator, version, mode) values(?, ?, ?, ?, ?, ?)",
			p, b.Metadata.Title, b.Metadata.Artist, b.Metadata.Creator,
			b.Metadata.Version, int(b.Mode),
		)
		if nil != err {
			log.Println("unable to index", p, err)
			return nil
		}
		count++
		return nil
	})
	return count, err
}

func (l *DefaultLibrary) List() ([]Entry, error) {
	rows, err := l.db.Query(
		"select path, title, artist, creator, version, mode from beatmaps order by artist, title, version")
	if nil != err {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Title, &e.Artist, &e.Creator, &e.Version, &e.Mode); nil != err {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
