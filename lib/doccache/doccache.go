// Package doccache keeps exported documents around between runs so that
// iterating on a catalog does not download the same document every time.
package doccache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

var ErrMiss = errors.New("document is not cached")

type Cache struct {
	db *sql.DB
	// defaults to time.Now
	Now func() time.Time
}

// Open opens (and creates if needed) a cache database at path, ":memory:"
// gives a cache that lives as long as the process.
func Open(path string) (Cache, error) {
	if path == "" {
		return Cache{}, fmt.Errorf("a path was not specified")
	}
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return Cache{}, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Cache{}, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return Cache{}, err
		}
	}

	return New(db)
}

// New creates the schema on an already opened database.
func New(db *sql.DB) (Cache, error) {
	_, err := db.Exec(Schema)
	if err != nil {
		return Cache{}, err
	}
	return Cache{db: db, Now: time.Now}, nil
}

func (c Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Get returns the cached html of docId if it was fetched less than maxAge
// ago. A maxAge of 0 accepts any age.
func (c Cache) Get(ctx context.Context, docId string, maxAge time.Duration) (string, error) {
	var html string
	var fetchedAt int64
	err := c.db.QueryRowContext(
		ctx,
		"select html, fetchedAt from ExportedDocument where docId = ?",
		docId,
	).Scan(&html, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}

	if maxAge > 0 && c.now().Sub(time.Unix(fetchedAt, 0)) > maxAge {
		return "", ErrMiss
	}
	return html, nil
}

func (c Cache) Put(ctx context.Context, docId, html string) error {
	_, err := c.db.ExecContext(
		ctx,
		`insert into ExportedDocument(docId, html, fetchedAt) values (?, ?, ?)
		on conflict (docId) do update set html = excluded.html, fetchedAt = excluded.fetchedAt`,
		docId, html, c.now().Unix(),
	)
	return err
}

// Purge drops every cached document.
func (c Cache) Purge(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "delete from ExportedDocument")
	return err
}

func (c Cache) Close() error {
	return c.db.Close()
}
