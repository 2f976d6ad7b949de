package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func runStudio(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GIN_MODE", "")
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeResume(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cv.docx")
	if err := os.WriteFile(path, []byte("resume bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCoverLetterCommand(t *testing.T) {
	var gotPersonalInfo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate_cover_letter" {
			http.NotFound(w, r)
			return
		}
		gotPersonalInfo = r.FormValue("personalInfo")
		w.Write([]byte("letter"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	stdout, stderr, err := runStudio(t, "cover-letter",
		"--resume", writeResume(t, dir),
		"--job-description", "Go engineer",
		"--generator-url", srv.URL,
		"--out", out,
		"--full-name", "Ada Lovelace",
		"--email", "ada@example.com",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	saved, err := os.ReadFile(filepath.Join(out, "Cover_Letter.docx"))
	if err != nil || string(saved) != "letter" {
		t.Fatalf("saved %q, %v", saved, err)
	}
	if !strings.Contains(stdout, "Saved") {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(gotPersonalInfo, `"fullName":"Ada Lovelace"`) {
		t.Errorf("personalInfo = %s", gotPersonalInfo)
	}
	if !strings.Contains(stderr, "--phone") || strings.Contains(stderr, "--email") {
		t.Errorf("recommended warning = %q", stderr)
	}
}

func TestImproveResumeCommand_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, _, err := runStudio(t, "improve-resume",
		"--resume", writeResume(t, dir),
		"--job-description", "Go engineer",
		"--generator-url", srv.URL,
		"--out", dir,
	)
	if err == nil || !strings.Contains(err.Error(), "Error improving resume. Please try again.") {
		t.Fatalf("err = %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "Improved_Resume.docx")); !os.IsNotExist(statErr) {
		t.Error("document written despite failure")
	}
}

func TestImproveResumeCommand_BlankJobDescription(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, _, err := runStudio(t, "improve-resume",
		"--resume", writeResume(t, t.TempDir()),
		"--job-description", "   ",
		"--generator-url", srv.URL,
	)
	if err == nil || err.Error() != "Please upload a resume and provide job description" {
		t.Fatalf("err = %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("document service called")
	}
}

func TestImproveResumeCommand_IgnoresServerOnlySettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("resume"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"improve-resume",
		"--resume", writeResume(t, dir),
		"--job-description", "Go engineer",
		"--generator-url", srv.URL,
		"--out", dir,
	})
	t.Setenv("GIN_MODE", "release")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SESSION_IDLE", "whenever")

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Improved_Resume.docx")); err != nil {
		t.Errorf("document not saved: %v", err)
	}
}

func TestRejectsUnsupportedResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	_ = os.WriteFile(path, []byte("%PDF"), 0644)

	_, _, err := runStudio(t, "improve-resume", "--resume", path, "--job-description", "x")
	if err == nil || !strings.Contains(err.Error(), ".doc or .docx") {
		t.Errorf("err = %v", err)
	}
}
