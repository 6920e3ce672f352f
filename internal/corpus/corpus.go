// Package corpus provides the document/query model and loaders for the
// sectioned corpus format (.I/.A/.T/.K/.W markers), relevance judgments,
// and stopword lists. Loaded values are treated as read-only by the rest
// of the system.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/irbench/ir-bench/internal/pkg/errors"
)

// Document is an identifier plus the raw token streams of its sections.
// Immutable once loaded.
type Document struct {
	ID       int
	Author   []string
	Title    []string
	Keywords []string
	Abstract []string
}

// Sections returns the token streams in canonical order.
func (d *Document) Sections() [][]string {
	return [][]string{d.Author, d.Title, d.Keywords, d.Abstract}
}

// Tokens returns the concatenated raw token stream in section order.
func (d *Document) Tokens() []string {
	n := len(d.Author) + len(d.Title) + len(d.Keywords) + len(d.Abstract)
	tokens := make([]string, 0, n)
	for _, sec := range d.Sections() {
		tokens = append(tokens, sec...)
	}
	return tokens
}

// Query is a document-shaped request plus its relevance judgment set.
type Query struct {
	Document
	Relevant []int
}

// Tokenize splits a line into lowercased tokens. Any run of non-letter,
// non-digit characters is a delimiter.
func Tokenize(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

// ReadDocuments parses the sectioned corpus format:
//
//	.I <id>
//	.T
//	<title lines>
//	.A
//	<author lines>
//	.K
//	<keyword lines>
//	.W
//	<abstract lines>
//
// Unknown section markers are skipped. Lines outside any document are an
// error.
func ReadDocuments(r io.Reader) ([]Document, error) {
	var docs []Document
	var cur *Document
	section := byte(0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, ".I"):
			id, err := strconv.Atoi(strings.TrimSpace(line[2:]))
			if err != nil {
				return nil, errors.CorpusError("parsing document id", err).
					WithDetail("line", strconv.Itoa(lineNo))
			}
			docs = append(docs, Document{ID: id})
			cur = &docs[len(docs)-1]
			section = 0

		case len(line) >= 2 && line[0] == '.' && isMarker(line[1]):
			section = line[1]

		default:
			if cur == nil {
				return nil, errors.CorpusError("content outside any document", nil).
					WithDetail("line", strconv.Itoa(lineNo))
			}
			tokens := Tokenize(line)
			switch section {
			case 'A':
				cur.Author = append(cur.Author, tokens...)
			case 'T':
				cur.Title = append(cur.Title, tokens...)
			case 'K':
				cur.Keywords = append(cur.Keywords, tokens...)
			case 'W':
				cur.Abstract = append(cur.Abstract, tokens...)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.CorpusError("reading corpus", err)
	}

	return docs, nil
}

func isMarker(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// ReadJudgments parses whitespace-separated "queryID docID" lines into a
// query-to-relevant-documents map. Document lists come out sorted and
// deduplicated.
func ReadJudgments(r io.Reader) (map[int][]int, error) {
	rels := make(map[int][]int)
	seen := make(map[int]map[int]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.CorpusError(
				fmt.Sprintf("expected 2 fields, got %d", len(fields)), nil).
				WithDetail("line", strconv.Itoa(lineNo))
		}
		qid, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.CorpusError("parsing query id", err).
				WithDetail("line", strconv.Itoa(lineNo))
		}
		docID, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.CorpusError("parsing document id", err).
				WithDetail("line", strconv.Itoa(lineNo))
		}

		if seen[qid] == nil {
			seen[qid] = make(map[int]bool)
		}
		if !seen[qid][docID] {
			seen[qid][docID] = true
			rels[qid] = append(rels[qid], docID)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.CorpusError("reading judgments", err)
	}

	for qid := range rels {
		sort.Ints(rels[qid])
	}
	return rels, nil
}

// AttachJudgments pairs parsed queries with their relevance sets. Queries
// without judgments get an empty set; the evaluator excludes them from
// aggregates.
func AttachJudgments(docs []Document, rels map[int][]int) []Query {
	queries := make([]Query, len(docs))
	for i, d := range docs {
		queries[i] = Query{Document: d, Relevant: rels[d.ID]}
	}
	return queries
}

// ReadStopwords parses a newline-delimited word list into a lowercased set.
func ReadStopwords(r io.Reader) (map[string]struct{}, error) {
	set := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			set[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.CorpusError("reading stopwords", err)
	}

	return set, nil
}
