package infra

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnsureModel makes sure the Vosk model directory exists. When it is
// missing and archiveURL is set, the zip is downloaded and extracted.
// Vosk archives carry a single top-level directory (the model name);
// that level is stripped so modelPath ends up holding am/, conf/, graph/.
func EnsureModel(ctx context.Context, modelPath, archiveURL string) error {
	if st, err := os.Stat(modelPath); err == nil && st.IsDir() {
		log.Printf("[MODEL] found at %s", modelPath)
		return nil
	}

	if archiveURL == "" {
		return fmt.Errorf("vosk model missing at %q and VOSK_MODEL_URL not set", modelPath)
	}

	start := time.Now()
	log.Printf("[MODEL][FETCH] url=%s", archiveURL)

	tmp, err := os.CreateTemp("", "vosk-model-*.zip")
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	req, err := http.NewRequestWithContext(ctx, "GET", archiveURL, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("model download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("model download http %d", resp.StatusCode)
	}

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return fmt.Errorf("model download copy: %w", err)
	}

	log.Printf("[MODEL][FETCH][OK] bytes=%d dur=%s", size, time.Since(start))

	if err := unzipModel(tmp.Name(), modelPath); err != nil {
		_ = os.RemoveAll(modelPath)
		return fmt.Errorf("model extract: %w", err)
	}

	log.Printf("[MODEL][READY] path=%s dur=%s", modelPath, time.Since(start))
	return nil
}

func unzipModel(zipPath, dst string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := stripTopDir(f.Name)
		if name == "" {
			continue
		}

		target := filepath.Join(dst, name)

		// reject entries escaping the target dir
		if !strings.HasPrefix(target, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry escapes target: %q", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		src, err := f.Open()
		if err != nil {
			return err
		}

		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
		if err != nil {
			src.Close()
			return err
		}

		_, err = io.Copy(out, src)
		src.Close()
		out.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func stripTopDir(name string) string {
	name = strings.TrimPrefix(name, "./")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}
