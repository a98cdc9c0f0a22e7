// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"anchor-cli/internal/platform"
)

func TestDistroPrefixResolve(t *testing.T) {
	prefix := "http://localhost/node/distro/"
	filename := "node.tar.gz"
	h := DistroPrefix(prefix)

	got, err := h.Resolve("1.0.0", filename)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := prefix + filename; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDistroTemplateResolve(t *testing.T) {
	h := DistroTemplate("http://localhost/node/{os}/{arch}/{version}/node.tar.gz")

	got, err := h.Resolve("1.0.0", "node.tar.gz")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := fmt.Sprintf("http://localhost/node/%s/%s/1.0.0/node.tar.gz", platform.OS, platform.Arch)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDistroTemplateRepeatedTokens(t *testing.T) {
	h := DistroTemplate("http://mirror/{version}/{version}.tgz")

	got, err := h.Resolve("2.3.4", "ignored.tgz")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "http://mirror/2.3.4/2.3.4.tgz"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDistroTemplateNoTokens(t *testing.T) {
	template := "http://localhost/fixed/node.tar.gz"
	h := DistroTemplate(template)

	got, err := h.Resolve("1.0.0", "node.tar.gz")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != template {
		t.Errorf("got %q, want the template unchanged %q", got, template)
	}
}

func TestMetadataPrefixResolve(t *testing.T) {
	prefix := "http://localhost/node/index/"
	filename := "index.json"
	h := MetadataPrefix(prefix)

	got, err := h.Resolve(filename)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := prefix + filename; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMetadataTemplateResolve(t *testing.T) {
	h := MetadataTemplate("http://localhost/node/{os}/{arch}/index.json")

	got, err := h.Resolve("index.json")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := fmt.Sprintf("http://localhost/node/%s/%s/index.json", platform.OS, platform.Arch)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMetadataTemplateLeavesVersionToken(t *testing.T) {
	// Metadata resolution has no version parameter, so a literal {version}
	// token must survive untouched.
	h := MetadataTemplate("http://localhost/{os}/{version}/index.json")

	got, err := h.Resolve("index.json")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := fmt.Sprintf("http://localhost/%s/{version}/index.json", platform.OS)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHookString(t *testing.T) {
	if got := DistroTemplate("http://mirror/{version}.tgz").String(); got != "template http://mirror/{version}.tgz" {
		t.Errorf("got %q", got)
	}
	if got := MetadataPrefix("http://mirror/").String(); got != "prefix http://mirror/" {
		t.Errorf("got %q", got)
	}
	if got := PublishBin("report-event").String(); got != "bin report-event" {
		t.Errorf("got %q", got)
	}
}

func TestBinHookEmptyCommand(t *testing.T) {
	for _, command := range []string{"", "   ", "\t\n"} {
		if _, err := DistroBin(command).Resolve("1.0.0", "node.tar.gz"); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("distro bin %q: got %v, want ErrInvalidCommand", command, err)
		}
		if _, err := MetadataBin(command).Resolve("index.json"); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("metadata bin %q: got %v, want ErrInvalidCommand", command, err)
		}
	}
}

// writeArgsScript creates an executable shell script that echoes its
// arguments separated by spaces.
func writeArgsScript(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "args.sh")
	script := "#!/bin/sh\necho \"$@\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestDistroBinAppendsVersion(t *testing.T) {
	script := writeArgsScript(t)
	h := DistroBin(script + " http://example.com/node.tgz")

	got, err := h.Resolve("4.5.6", "node.tar.gz")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "http://example.com/node.tgz 4.5.6"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMetadataBinNoExtraArg(t *testing.T) {
	script := writeArgsScript(t)
	h := MetadataBin(script + " http://example.com/index.json")

	got, err := h.Resolve("index.json")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "http://example.com/index.json"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDistroBinPrintf(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("printf fixture requires a POSIX environment")
	}

	// printf reuses its format for every argument, so the version argument
	// is concatenated onto the URL - what matters here is that the version
	// was passed as the final argument and stdout came back trimmed.
	h := DistroBin("printf %s http://example.com/node.tgz")

	got, err := h.Resolve("4.5.6", "node.tar.gz")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "http://example.com/node.tgz4.5.6"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
