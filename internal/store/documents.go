package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// IDField is the key under which a document's id is returned.
const IDField = "_id"

// Document is a JSON object.
type Document map[string]any

// Upsert merges doc's top-level keys into the document (collection, id),
// creating it when absent.
func (s *Store) Upsert(ctx context.Context, collection, id string, doc Document) error {
	collection, id = strings.TrimSpace(collection), strings.TrimSpace(id)
	if collection == "" || id == "" {
		return errors.New("upsert requires collection and id")
	}
	existing, found, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	if !found {
		existing = Document{}
	}
	delete(existing, IDField)
	for key, value := range doc {
		if key == IDField {
			continue
		}
		existing[key] = value
	}
	body, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.exec(ctx,
		`INSERT INTO documents (collection, id, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		collection, id, string(body), now,
	)
}

// Get returns one document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, bool, error) {
	ctx = ensureContext(ctx)
	var body string
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT body FROM documents WHERE collection = ? AND id = ?"),
		collection, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}
	doc, err := decodeDocument(id, body)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// Find returns the documents in collection whose top-level fields equal every
// filter value, ordered by id. An array field matches when any element does.
func (s *Store) Find(ctx context.Context, collection string, filter map[string]string) ([]Document, error) {
	docs, err := s.all(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if matches(doc, filter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Distinct returns the sorted distinct values of field across collection.
// Array values contribute each element.
func (s *Store) Distinct(ctx context.Context, collection, field string) ([]string, error) {
	docs, err := s.all(ctx, collection)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, doc := range docs {
		value, ok := doc[field]
		if !ok {
			continue
		}
		for _, v := range flatten(value) {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) all(ctx context.Context, collection string) ([]Document, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT id, body FROM documents WHERE collection = ? ORDER BY id"),
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decodeDocument(id, body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collection %s: %w", collection, err)
	}
	return docs, nil
}

func decodeDocument(id, body string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	if doc == nil {
		doc = Document{}
	}
	doc[IDField] = id
	return doc, nil
}

func matches(doc Document, filter map[string]string) bool {
	for key, want := range filter {
		value, ok := doc[key]
		if !ok {
			return false
		}
		hit := false
		for _, v := range flatten(value) {
			if v == want {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func flatten(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return []string{typed}
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, flatten(item)...)
		}
		return out
	default:
		return []string{fmt.Sprint(typed)}
	}
}
