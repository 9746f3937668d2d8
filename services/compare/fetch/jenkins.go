// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fetch obtains raw log files for the comparison engine.
//
// The engine only sees in-memory name/content pairs; where they come
// from — a Jenkins build page scraped for artifact links, or a local
// directory — is this package's concern. Jenkins build pages are
// plain HTML listings, so artifact discovery is anchor extraction
// plus URL resolution.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/AleutianAI/tapdiff/pkg/logging"
)

// DefaultFetchTimeout bounds each HTTP request to the build server.
const DefaultFetchTimeout = 60 * time.Second

// File is one fetched log: its base name and full text content.
type File struct {
	Name    string
	Content string
}

// Provider yields the full content of each log file for one side of
// the comparison, decoupled from how the files are obtained.
type Provider interface {
	Files(ctx context.Context) ([]File, error)
}

// Client downloads build artifacts from a Jenkins-style build page.
//
// # Thread Safety
//
// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	log        *logging.Logger
}

// NewClient creates a Client with default timeout and logging.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
		log:        logging.Default(),
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLogger replaces the logger.
func (c *Client) WithLogger(log *logging.Logger) *Client {
	c.log = log
	return c
}

// ListArtifacts returns the absolute URLs of artifacts with the given
// extension linked from a build page.
//
// # Description
//
// Fetches the page, walks its HTML for anchor hrefs, resolves each
// against the page URL, and keeps those whose path ends in
// ".<ext>" (case-insensitive). Order follows document order.
func (c *Client) ListArtifacts(ctx context.Context, pageURL, ext string) ([]string, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	if pageURL == "" || ext == "" {
		return nil, fmt.Errorf("%w: page URL and extension are required", ErrInvalidInput)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch build page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("build page returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse build page: %w", err)
	}

	suffix := "." + strings.ToLower(ext)
	var links []string
	seen := make(map[string]struct{})

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				ref, err := url.Parse(attr.Val)
				if err != nil {
					continue
				}
				resolved := base.ResolveReference(ref)
				if !strings.HasSuffix(strings.ToLower(resolved.Path), suffix) {
					continue
				}
				abs := resolved.String()
				if _, dup := seen[abs]; dup {
					continue
				}
				seen[abs] = struct{}{}
				links = append(links, abs)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return links, nil
}

// FetchAll downloads every artifact of the given extension linked
// from a build page.
//
// # Description
//
// Individual download failures are logged and skipped so one flaky
// artifact does not sink the run; ending up with zero files is
// ErrNoArtifacts and the caller treats that as fatal for its side.
func (c *Client) FetchAll(ctx context.Context, pageURL, ext string) ([]File, error) {
	links, err := c.ListArtifacts(ctx, pageURL, ext)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(links))
	for _, link := range links {
		file, err := c.fetchOne(ctx, link)
		if err != nil {
			c.log.Warn("artifact download failed", "url", link, "error", err)
			continue
		}
		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .%s files at %s", ErrNoArtifacts, ext, pageURL)
	}

	c.log.Info("downloaded artifacts", "url", pageURL, "count", len(files))
	return files, nil
}

// fetchOne downloads a single artifact into memory.
func (c *Client) fetchOne(ctx context.Context, artifactURL string) (File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return File{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return File{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return File{}, fmt.Errorf("artifact returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return File{}, fmt.Errorf("read body: %w", err)
	}

	parsed, err := url.Parse(artifactURL)
	if err != nil {
		return File{}, fmt.Errorf("parse artifact URL: %w", err)
	}

	return File{
		Name:    path.Base(parsed.Path),
		Content: string(body),
	}, nil
}

// URLProvider adapts Client.FetchAll to the Provider interface.
type URLProvider struct {
	Client *Client
	URL    string
	Ext    string
}

// Files implements Provider.
func (p URLProvider) Files(ctx context.Context) ([]File, error) {
	return p.Client.FetchAll(ctx, p.URL, p.Ext)
}

// DirProvider reads logs with the given extension from a local
// directory. Useful for re-running comparisons on archived builds.
type DirProvider struct {
	Dir string
	Ext string
}

// Files implements Provider. Entries are returned in directory-sorted
// order; subdirectories are not descended into.
func (p DirProvider) Files(ctx context.Context) ([]File, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}

	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	suffix := "." + strings.ToLower(p.Ext)
	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(p.Dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		files = append(files, File{Name: entry.Name(), Content: string(data)})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .%s files in %s", ErrNoArtifacts, p.Ext, p.Dir)
	}

	return files, nil
}

// Ensure both providers satisfy the interface.
var (
	_ Provider = URLProvider{}
	_ Provider = DirProvider{}
)
