// Package rdf implements the fourth hash extraction mode: SourceForge's
// per-release RDF feed, which lists one <rdf:Description rdf:about="..">
// block per file, each carrying a namespaced <digest:sha256> child.
// Rather than pull in a full RDF/XML library for one element, this
// streams the body with encoding/xml's token scanner.
package rdf

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound reports that no matching rdf:Description/sha256 digest was
// found in the body.
var ErrNotFound = errors.New("rdf: no digest found in body")

// Extract scans body for the <rdf:Description> entry whose "about"
// attribute names basename (or, when basename is empty, the first entry
// seen), then returns the character data of its nested
// "sha256"-named digest element, trimmed. Returns an error wrapping
// ErrNotFound if no matching entry or digest is found.
func Extract(ctx context.Context, body []byte, basename string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	inEntry := false
	inDigest := false
	var sb strings.Builder

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode rdf body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case strings.EqualFold(t.Name.Local, "Description"):
				inEntry = basename == "" || describesFile(t, basename)
				inDigest = false
			case inEntry && strings.EqualFold(t.Name.Local, "sha256"):
				inDigest = true
				sb.Reset()
			}
		case xml.CharData:
			if inEntry && inDigest {
				sb.Write(t)
			}
		case xml.EndElement:
			switch {
			case inEntry && inDigest && strings.EqualFold(t.Name.Local, "sha256"):
				return strings.TrimSpace(sb.String()), nil
			case strings.EqualFold(t.Name.Local, "Description"):
				inEntry, inDigest = false, false
			}
		}
	}
	return "", fmt.Errorf("%w: no sha256 digest for %q", ErrNotFound, basename)
}

// describesFile reports whether t's "about" attribute identifies
// basename, either exactly or as the final path segment of a full URL.
func describesFile(t xml.StartElement, basename string) bool {
	for _, attr := range t.Attr {
		if !strings.EqualFold(attr.Name.Local, "about") {
			continue
		}
		if attr.Value == basename || strings.HasSuffix(attr.Value, "/"+basename) {
			return true
		}
	}
	return false
}
