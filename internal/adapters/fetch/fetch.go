// Package fetch downloads remote sequence tables into an on-disk cache.
// Each URL maps to one cached file plus a .meta sidecar; cached entries are
// revalidated with If-None-Match / If-Modified-Since and served from disk
// when the origin answers 304 or cannot be reached.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"seqfeat/internal/platform/config"
	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/logger"
)

// IsRemote reports whether src names an http(s) resource
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Options configures a Cache
type Options struct {
	Dir        string
	Timeout    time.Duration
	Revalidate bool
	// MaxBytes caps the cache size, oldest entries go first; 0 disables retention
	MaxBytes int64
}

// FromConfig reads CORE_FETCH_* keys
func FromConfig(cfg config.Conf) Options {
	fc := cfg.Prefix("CORE_FETCH_")
	dir := filepath.Join(os.TempDir(), "seqfeat-cache")
	if base, err := os.UserCacheDir(); err == nil {
		dir = filepath.Join(base, "seqfeat")
	}
	return Options{
		Dir:        fc.MayString("CACHE_DIR", dir),
		Timeout:    fc.MayDuration("TIMEOUT", time.Minute),
		Revalidate: fc.MayBool("REVALIDATE", true),
		MaxBytes:   int64(fc.MayInt("MAX_BYTES", 0)),
	}
}

// Cache fetches URLs through a local directory
type Cache struct {
	opt    Options
	client *http.Client
	log    logger.Logger
}

// meta is the sidecar for one cached URL
type meta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	Size         int64     `json:"size,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	LastChecked  time.Time `json:"last_checked"`
}

// New builds a Cache; client may be nil
func New(opt Options, client *http.Client) *Cache {
	if client == nil {
		client = &http.Client{Timeout: opt.Timeout}
	}
	return &Cache{opt: opt, client: client, log: *logger.Named("fetch")}
}

// Path returns the cache file for rawURL. The URL's file extension is kept
// so format detection by extension still works on the cached copy.
func (c *Cache) Path(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:12])
	if u, err := url.Parse(rawURL); err == nil {
		base := path.Base(u.Path)
		if i := strings.Index(base, "."); i > 0 {
			name += strings.ToLower(base[i:])
		}
	}
	return filepath.Join(c.opt.Dir, name)
}

// Fetch makes rawURL available on disk and returns the local path
func (c *Cache) Fetch(ctx context.Context, rawURL string) (string, error) {
	if !IsRemote(rawURL) {
		return "", perr.InvalidArgf("not an http(s) url: %q", rawURL)
	}
	if err := os.MkdirAll(c.opt.Dir, 0o755); err != nil {
		return "", perr.WrapIOf(err, "create cache dir %q", c.opt.Dir)
	}
	local := c.Path(rawURL)
	metaPath := local + ".meta"

	if fi, err := os.Stat(local); err == nil && fi.Mode().IsRegular() {
		if !c.opt.Revalidate {
			c.log.Debug().Str("url", rawURL).Msg("cache hit")
			return local, nil
		}
		if err := c.revalidate(ctx, rawURL, local, metaPath); err != nil {
			// origin trouble never hides a usable local copy
			c.log.Warn().Err(err).Str("url", rawURL).Msg("revalidate failed; serving cached copy")
		}
		return local, nil
	}

	resp, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return "", perr.IOf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	if err := c.store(resp, rawURL, local, metaPath); err != nil {
		return "", err
	}
	c.cleanup(local)
	return local, nil
}

func (c *Cache) revalidate(ctx context.Context, rawURL, local, metaPath string) error {
	m, _ := loadMeta(metaPath)
	resp, err := c.get(ctx, rawURL, m)
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusNotModified:
		_ = resp.Body.Close()
		if m == nil {
			m = &meta{URL: rawURL}
		}
		m.LastChecked = time.Now().UTC()
		c.log.Debug().Str("url", rawURL).Msg("cache revalidated")
		return saveMeta(metaPath, m)
	case http.StatusOK:
		return c.store(resp, rawURL, local, metaPath)
	default:
		_ = resp.Body.Close()
		return perr.IOf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
}

func (c *Cache) get(ctx context.Context, rawURL string, m *meta) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "build request for %q", rawURL)
	}
	if m != nil {
		if m.ETag != "" {
			req.Header.Set("If-None-Match", m.ETag)
		}
		if m.LastModified != "" {
			req.Header.Set("If-Modified-Since", m.LastModified)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, perr.WrapIOf(err, "fetch %s", rawURL)
	}
	return resp, nil
}

// store writes the body through a .part file and renames it into place
func (c *Cache) store(resp *http.Response, rawURL, local, metaPath string) error {
	defer func() { _ = resp.Body.Close() }()
	tmp := local + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return perr.WrapIOf(err, "create %q", tmp)
	}
	n, werr := io.Copy(out, resp.Body)
	cerr := out.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp)
		if werr == nil {
			werr = cerr
		}
		return perr.WrapIOf(werr, "download %s", rawURL)
	}
	if err := os.Rename(tmp, local); err != nil {
		_ = os.Remove(tmp)
		return perr.WrapIOf(err, "move %q into cache", tmp)
	}

	now := time.Now().UTC()
	m := &meta{
		URL:          rawURL,
		ETag:         strings.TrimSpace(resp.Header.Get("ETag")),
		LastModified: strings.TrimSpace(resp.Header.Get("Last-Modified")),
		Size:         n,
		FetchedAt:    now,
		LastChecked:  now,
	}
	c.log.Info().Str("url", rawURL).Int64("bytes", n).Msg("downloaded")
	return saveMeta(metaPath, m)
}

func loadMeta(p string) (*meta, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var m meta
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func saveMeta(p string, m *meta) error {
	b, err := json.Marshal(m)
	if err != nil {
		return perr.WrapIOf(err, "encode cache meta")
	}
	tmp := p + ".part"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return perr.WrapIOf(err, "write %q", tmp)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return perr.WrapIOf(err, "move %q", tmp)
	}
	return nil
}

// cleanup drops the oldest entries until the cache fits MaxBytes; keep is never removed
func (c *Cache) cleanup(keep string) {
	if c.opt.MaxBytes <= 0 {
		return
	}
	entries, err := os.ReadDir(c.opt.Dir)
	if err != nil {
		return
	}
	type item struct {
		path string
		size int64
		mod  time.Time
	}
	var items []item
	var total int64
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".meta") || strings.HasSuffix(name, ".part") {
			continue
		}
		fi, err := e.Info()
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		items = append(items, item{path: filepath.Join(c.opt.Dir, name), size: fi.Size(), mod: fi.ModTime()})
		total += fi.Size()
	}
	sort.Slice(items, func(i, j int) bool { return items[i].mod.Before(items[j].mod) })
	for _, it := range items {
		if total <= c.opt.MaxBytes {
			break
		}
		if it.path == keep {
			continue
		}
		_ = os.Remove(it.path)
		_ = os.Remove(it.path + ".meta")
		total -= it.size
		c.log.Debug().Str("path", it.path).Msg("evicted")
	}
}
