package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseAssetName(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"darwin universal", "darwin", "arm64", "cortex_Darwin_all.tar.gz", false},
		{"darwin intel still universal", "darwin", "amd64", "cortex_Darwin_all.tar.gz", false},
		{"linux amd64", "linux", "amd64", "cortex_Linux_x86_64.tar.gz", false},
		{"linux arm", "linux", "arm64", "cortex_Linux_arm64.tar.gz", false},
		{"linux 32-bit", "linux", "386", "cortex_Linux_i386.tar.gz", false},
		{"windows", "windows", "amd64", "cortex_Windows_x86_64.zip", false},
		{"unsupported os", "plan9", "amd64", "", true},
		{"unsupported arch", "linux", "riscv64", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := releaseAssetName(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyAgainstManifest(t *testing.T) {
	archive := []byte("release archive bytes")
	digest := sha256.Sum256(archive)
	line := func(hash, name string) string { return hash + "  " + name + "\n" }
	good := hex.EncodeToString(digest[:])

	t.Run("match", func(t *testing.T) {
		manifest := line("feedface", "cortex_Linux_arm64.tar.gz") + line(good, "cortex_Darwin_all.tar.gz")
		assert.NoError(t, verifyAgainstManifest(archive, []byte(manifest), "cortex_Darwin_all.tar.gz"))
	})

	t.Run("digest mismatch", func(t *testing.T) {
		manifest := line(hex.EncodeToString(make([]byte, 32)), "cortex_Darwin_all.tar.gz")
		err := verifyAgainstManifest(archive, []byte(manifest), "cortex_Darwin_all.tar.gz")
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("asset absent", func(t *testing.T) {
		manifest := line(good, "cortex_Windows_x86_64.zip") + "garbage line\n\n"
		err := verifyAgainstManifest(archive, []byte(manifest), "cortex_Darwin_all.tar.gz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no checksum found")
	})
}

func TestUnpackBinary(t *testing.T) {
	payload := []byte("ELF pretend-binary")

	t.Run("tar.gz", func(t *testing.T) {
		got, err := unpackBinary(tarGzWith(t, "cortex", payload), "cortex_Linux_x86_64.tar.gz")
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("binary missing from archive", func(t *testing.T) {
		_, err := unpackBinary(tarGzWith(t, "README.md", payload), "cortex_Linux_x86_64.tar.gz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestSwapExecutable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cortex")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0755))

	next := []byte("v2 binary")
	digest := sha256.Sum256(next)
	require.NoError(t, swapExecutable(next, target, digest[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, next, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestApply(t *testing.T) {
	payload := []byte("cortex release payload")
	archive := tarGzWith(t, "cortex", payload)
	archiveDigest := sha256.Sum256(archive)
	asset := "cortex_Darwin_all.tar.gz"
	manifest := fmt.Sprintf("%s  %s\n", hex.EncodeToString(archiveDigest[:]), asset)

	releaseServer := func(t *testing.T, tag, checksums string) *httptest.Server {
		t.Helper()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/repos/cortexdiag/cortex/releases/latest":
				fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
			case "/cortexdiag/cortex/releases/download/" + tag + "/" + asset:
				_, _ = w.Write(archive)
			case "/cortexdiag/cortex/releases/download/" + tag + "/checksums.txt":
				_, _ = w.Write([]byte(checksums))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("installs newer release", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "cortex")
		require.NoError(t, os.WriteFile(target, []byte("v0.3.0 binary"), 0755))
		srv := releaseServer(t, "v0.4.0", manifest)

		u := New(
			WithAPIBase(srv.URL),
			WithReleaseBase(srv.URL),
			withExecPath(func() (string, error) { return target, nil }),
		)

		var steps []string
		err := u.Apply(context.Background(), "v0.3.0", "", func(p Progress) {
			steps = append(steps, p.Step)
		})
		require.NoError(t, err)

		installed, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, payload, installed)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, steps)
	})

	t.Run("dev build refuses", func(t *testing.T) {
		err := New().Apply(context.Background(), "(devel)", "", func(Progress) {})
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("nothing newer", func(t *testing.T) {
		srv := releaseServer(t, "v0.3.0", manifest)
		u := New(WithAPIBase(srv.URL), WithReleaseBase(srv.URL))
		err := u.Apply(context.Background(), "v0.3.0", "", func(Progress) {})
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("corrupt checksum aborts", func(t *testing.T) {
		bad := fmt.Sprintf("%s  %s\n", hex.EncodeToString(make([]byte, 32)), asset)
		srv := releaseServer(t, "v0.4.0", bad)
		u := New(WithAPIBase(srv.URL), WithReleaseBase(srv.URL))
		err := u.Apply(context.Background(), "v0.3.0", "", func(Progress) {})
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("missing asset fails download", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/cortexdiag/cortex/releases/latest" {
				fmt.Fprint(w, `{"tag_name":"v0.4.0","html_url":"https://example.com/v0.4.0"}`)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)
		u := New(WithAPIBase(srv.URL), WithReleaseBase(srv.URL))
		err := u.Apply(context.Background(), "v0.3.0", "", func(Progress) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func TestLatestComparesTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name":"v0.4.0","html_url":"https://example.com/v0.4.0"}`)
	}))
	t.Cleanup(srv.Close)
	u := New(WithAPIBase(srv.URL))

	older, err := u.Latest(context.Background(), "v0.3.9")
	require.NoError(t, err)
	assert.True(t, older.IsNewer)

	same, err := u.Latest(context.Background(), "0.4.0") // tolerates missing v prefix
	require.NoError(t, err)
	assert.False(t, same.IsNewer)
}

// tarGzWith builds a single-file tar.gz archive.
func tarGzWith(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0755}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
