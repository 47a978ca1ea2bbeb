package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	xhttp "AstroChart/pkg/http"
	applogger "AstroChart/pkg/logger"
)

// DefaultBaseURL serves the VSOP87 solution files (CDS catalogue VI/81).
const DefaultBaseURL = "https://cdsarc.cds.unistra.fr/ftp/VI/81"

var vsopExtensions = []string{"mer", "ven", "ear", "mar", "jup", "sat", "ura", "nep"}

// VSOP87Files lists the data files the provider reads.
func VSOP87Files() []string {
	out := make([]string, 0, len(vsopExtensions))
	for _, ext := range vsopExtensions {
		out = append(out, "VSOP87B."+ext)
	}
	return out
}

// Bootstrapper downloads missing VSOP87 files into the data directory.
type Bootstrapper struct {
	dir     string
	baseURL string
	client  *xhttp.Client
	l       *applogger.Logger
}

// NewBootstrapper creates a bootstrapper. An empty baseURL selects DefaultBaseURL.
func NewBootstrapper(dir, baseURL string, timeout time.Duration, l *applogger.Logger) *Bootstrapper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Bootstrapper{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithUserAgent("astrochart-ephemeris")),
		l:       l,
	}
}

// Missing returns the data files not present in the directory.
func (b *Bootstrapper) Missing() []string {
	var out []string
	for _, name := range VSOP87Files() {
		fi, err := os.Stat(filepath.Join(b.dir, name))
		if err != nil || fi.Size() == 0 {
			out = append(out, name)
		}
	}
	return out
}

// Ensure downloads every missing file. Existing files are left untouched.
// All failures are collected and returned together.
func (b *Bootstrapper) Ensure(ctx context.Context) error {
	missing := b.Missing()
	if len(missing) == 0 {
		if b.l != nil {
			b.l.Debug("ephemeris data present", applogger.String("dir", b.dir))
		}
		return nil
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create ephemeris dir: %w", err)
	}

	var errs []error
	for _, name := range missing {
		start := time.Now()
		if err := b.download(ctx, name); err != nil {
			if b.l != nil {
				b.l.Warn("ephemeris download failed", applogger.String("file", name), applogger.Error(err))
			}
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if b.l != nil {
			b.l.Info("ephemeris file downloaded",
				applogger.String("file", name),
				applogger.Duration("duration_ms", time.Since(start)),
			)
		}
	}
	return errors.Join(errs...)
}

func (b *Bootstrapper) download(ctx context.Context, name string) error {
	tmp, err := os.CreateTemp(b.dir, name+".*.part")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	n, err := b.client.Download(ctx, b.baseURL+"/"+name, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if b.l != nil {
		b.l.Debug("ephemeris file fetched", applogger.String("file", name), applogger.Int64("bytes", n))
	}
	return os.Rename(tmpName, filepath.Join(b.dir, name))
}
