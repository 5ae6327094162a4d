package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport_StoreAndClose(t *testing.T) {
	tmpDir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}

	r, err := conf.Prepare("run-42")
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	stored := filepath.Join(tmpDir, "styles.css")
	if err := os.WriteFile(stored, []byte(":root { --bg: #000; }"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	r.Store("sources/styles.css", stored)
	r.Store("sources/missing.html", filepath.Join(tmpDir, "missing.html"))
	r.StoreData("results.txt", []byte("PASS all"))

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	files := readArchive(t, r.Name())
	if !strings.HasPrefix(files["MANIFEST"], "run\trun-42\n") {
		t.Errorf("manifest does not start with run id: %q", files["MANIFEST"])
	}
	if files["sources/styles.css"] != ":root { --bg: #000; }" {
		t.Errorf("stored file content = %q", files["sources/styles.css"])
	}
	if files["results.txt"] != "PASS all" {
		t.Errorf("stored data = %q", files["results.txt"])
	}
	if _, ok := files["sources/missing.html"]; ok {
		t.Error("absent file must be skipped")
	}
}

func TestReport_StoreDataTwicePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("a", []byte("1"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate data entry")
		}
	}()
	r.StoreData("a", []byte("2"))
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	r.Store("x", "y")
	r.StoreData("x", nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name on nil report = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
