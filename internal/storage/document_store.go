package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindmark/internal/log"
	"mindmark/internal/model"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidName      = errors.New("document name must not be empty")
)

// DocumentInfo describes a stored document.
type DocumentInfo struct {
	Name      string
	Revisions int
	Created   time.Time
	Updated   time.Time
}

// Revision is one saved version of a document.
type Revision struct {
	ID      int64
	Size    int
	Created time.Time
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// DocumentSave stores m under name and records a new revision.
func (s *Storage) DocumentSave(ctx context.Context, name string, m *model.MindMap) error {
	name, err := checkName(name)
	if err != nil {
		return err
	}
	content := m.ToText()
	now := time.Now().UTC()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM documents WHERE name = ?", name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx,
			"INSERT INTO documents (name, content, created, updated) VALUES (?, ?, ?, ?)",
			name, content, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get document id: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up document: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET content = ?, updated = ? WHERE id = ?",
			content, now, id); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO revisions (document_id, content, created) VALUES (?, ?, ?)",
		id, content, now); err != nil {
		return fmt.Errorf("failed to record revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.stored.Add(name, content)
	s.logger.Info(ctx, "Document saved", log.Fields{"name": name, "bytes": len(content)})
	return nil
}

// DocumentLoad returns a fresh copy of the document stored under name.
// Edits to a loaded document stay private until it is saved again.
func (s *Storage) DocumentLoad(ctx context.Context, name string) (*model.MindMap, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	content, cached := s.stored.Get(name)
	if !cached {
		err = s.db.QueryRow(ctx, "SELECT content FROM documents WHERE name = ?", name).Scan(&content)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		s.stored.Add(name, content)
	}

	m, err := model.Parse(content, model.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", name, err)
	}
	s.logger.Debug(ctx, "Document loaded", log.Fields{"name": name, "cached": cached})
	return m, nil
}

// DocumentList returns every stored document ordered by name.
func (s *Storage) DocumentList(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.Query(ctx, `
		SELECT d.name, COUNT(r.id), d.created, d.updated
		FROM documents d
		LEFT JOIN revisions r ON r.document_id = d.id
		GROUP BY d.id
		ORDER BY d.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		if err := rows.Scan(&info.Name, &info.Revisions, &info.Created, &info.Updated); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, info)
	}
	return docs, rows.Err()
}

// DocumentDelete removes the document and its revisions.
func (s *Storage) DocumentDelete(ctx context.Context, name string) error {
	name, err := checkName(name)
	if err != nil {
		return err
	}
	result, err := s.db.Exec(ctx, "DELETE FROM documents WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}

	s.stored.Remove(name)
	s.logger.Info(ctx, "Document deleted", log.Fields{"name": name})
	return nil
}

// DocumentRevisions lists the saved versions of a document, newest first.
func (s *Storage) DocumentRevisions(ctx context.Context, name string) ([]Revision, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
		SELECT r.id, LENGTH(r.content), r.created
		FROM revisions r
		JOIN documents d ON d.id = r.document_id
		WHERE d.name = ?
		ORDER BY r.id DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(&rev.ID, &rev.Size, &rev.Created); err != nil {
			return nil, fmt.Errorf("failed to scan revision row: %w", err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	return revs, nil
}

// DocumentRevision parses a past revision of a document. The result is a
// fresh document that is not cached.
func (s *Storage) DocumentRevision(ctx context.Context, name string, id int64) (*model.MindMap, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	var content string
	err = s.db.QueryRow(ctx, `
		SELECT r.content
		FROM revisions r
		JOIN documents d ON d.id = r.document_id
		WHERE d.name = ? AND r.id = ?`, name, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s revision %d", ErrDocumentNotFound, name, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read revision: %w", err)
	}
	return model.Parse(content, model.WithLogger(s.logger))
}
