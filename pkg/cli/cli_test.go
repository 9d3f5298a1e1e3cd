package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/gt"
)

// workflowEnv lists variables the runner may set which would otherwise leak into flags
var workflowEnv = []string{
	"GITHUB_HEAD_REF",
	"GITHUB_REF_NAME",
	"GITHUB_OUTPUT",
	"GITHUB_ENV",
	"RELVER_BRANCH",
	"RELVER_CHAINS",
	"RELVER_CONFIG",
	"RELVER_REPO",
	"RELVER_LISTER",
	"RELVER_EXCLUDE_CURRENT",
	"RELVER_LOG_LEVEL",
	"RELVER_LOG_JSON",
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWithEnv(t, nil, args...)
}

// runCLIWithEnv clears workflowEnv and then sets env before running
func runCLIWithEnv(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	for _, key := range workflowEnv {
		t.Setenv(key, "")
		gt.NoError(t, os.Unsetenv(key))
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"relver"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	gt.NoError(t, err)
	return string(content)
}

func TestMatrix_ReleaseBranch(t *testing.T) {
	output := filepath.Join(t.TempDir(), "output")

	_, _, err := runCLI(t, "matrix",
		"--branch", "release-acala-1.2.3",
		"--github-output", output,
	)
	gt.NoError(t, err)
	gt.Equal(t, readFile(t, output), `matrix={"network":["acala"]}`+"\nversion=1.2.3\n")
}

func TestMatrix_DefaultChains(t *testing.T) {
	output := filepath.Join(t.TempDir(), "output")

	_, _, err := runCLI(t, "matrix", "--branch", "master", "--github-output", output)
	gt.NoError(t, err)
	gt.Equal(t, readFile(t, output), `matrix={"network":["mandala","karura","acala"]}`+"\n")
}

func TestMatrix_CustomChains(t *testing.T) {
	output := filepath.Join(t.TempDir(), "output")

	_, _, err := runCLI(t, "matrix",
		"--chain", "karura",
		"--chain", "acala",
		"--github-output", output,
	)
	gt.NoError(t, err)
	gt.Equal(t, readFile(t, output), `matrix={"network":["karura","acala"]}`+"\n")
}

func TestMatrix_BranchFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "Pull request head ref",
			env: map[string]string{
				"GITHUB_HEAD_REF": "release-acala-1.2.3",
				"GITHUB_REF_NAME": "42/merge",
			},
			want: `matrix={"network":["acala"]}` + "\nversion=1.2.3\n",
		},
		{
			name: "Empty head ref on push falls back to ref name",
			env: map[string]string{
				"GITHUB_HEAD_REF": "",
				"GITHUB_REF_NAME": "release-karura-2.10.0",
			},
			want: `matrix={"network":["karura"]}` + "\nversion=2.10.0\n",
		},
		{
			name: "Explicit branch wins over env",
			env: map[string]string{
				"RELVER_BRANCH":   "release-mandala-0.9.1",
				"GITHUB_HEAD_REF": "release-acala-1.2.3",
			},
			want: `matrix={"network":["mandala"]}` + "\nversion=0.9.1\n",
		},
		{
			name: "No branch in env",
			env:  map[string]string{"GITHUB_HEAD_REF": ""},
			want: `matrix={"network":["mandala","karura","acala"]}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "output")
			env := map[string]string{"GITHUB_OUTPUT": output}
			for k, v := range tt.env {
				env[k] = v
			}

			_, _, err := runCLIWithEnv(t, env, "matrix")
			gt.NoError(t, err)
			gt.Equal(t, readFile(t, output), tt.want)
		})
	}
}

func TestMatrix_MalformedBranch(t *testing.T) {
	output := filepath.Join(t.TempDir(), "output")

	_, _, err := runCLI(t, "matrix", "--branch", "release-acala-1.2", "--github-output", output)
	gt.True(t, errors.Is(err, model.ErrParse))

	_, statErr := os.Stat(output)
	gt.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestInspect_MissingBranch(t *testing.T) {
	_, stderr, err := runCLI(t, "inspect")
	gt.True(t, errors.Is(err, model.ErrMissingArgument))
	gt.String(t, stderr).Contains("CLI execution failed")
}

func TestInspect_GoGitRepository(t *testing.T) {
	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	gt.NoError(t, err)
	wt, err := repo.Worktree()
	gt.NoError(t, err)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, version := range []string{"2.8.3", "2.9.5", "2.10.0"} {
		gt.NoError(t, os.WriteFile(filepath.Join(repoDir, "VERSION"), []byte(version), 0o644))
		_, err := wt.Add("VERSION")
		gt.NoError(t, err)
		hash, err := wt.Commit("release "+version, &git.CommitOptions{
			Author: &object.Signature{
				Name:  "release bot",
				Email: "release@example.com",
				When:  base.Add(time.Duration(i) * 24 * time.Hour),
			},
		})
		gt.NoError(t, err)

		ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", "release-karura-"+version), hash)
		gt.NoError(t, repo.Storer.SetReference(ref))
	}

	dir := t.TempDir()
	output := filepath.Join(dir, "output")
	env := filepath.Join(dir, "env")

	_, stderr, err := runCLI(t, "inspect",
		"--branch", "origin/release-karura-2.10.0",
		"--lister", "go-git",
		"--repo", repoDir,
		"--github-output", output,
		"--github-env", env,
	)
	gt.NoError(t, err)

	gt.Equal(t, readFile(t, output), "chain=karura\nversion=2.10.0\nscope=full\n")
	gt.Equal(t, readFile(t, env), "CHAIN=karura\nVERSION=2.10.0\nPREVIOUS_VERSION=2.9.5\nSCOPE=full\n")
	gt.String(t, stderr).Contains("2.9.5")
}

func TestInspect_InsufficientHistory(t *testing.T) {
	repoDir := t.TempDir()
	_, err := git.PlainInit(repoDir, false)
	gt.NoError(t, err)

	output := filepath.Join(t.TempDir(), "output")
	_, _, err = runCLI(t, "inspect",
		"--branch", "release-karura-2.10.0",
		"--lister", "go-git",
		"--repo", repoDir,
		"--github-output", output,
	)
	gt.True(t, errors.Is(err, model.ErrInsufficientHistory))

	_, statErr := os.Stat(output)
	gt.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestScanLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	gt.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"booting",
		"[weight] idx: 3 -> 4",
		"[fee] idx: 7 -> 5",
		"done",
	}, "\n")), 0o644))

	stdout, _, err := runCLI(t, "scan-log", path)
	gt.NoError(t, err)
	gt.Equal(t, stdout, "::warning::[weight] idx: 3 -> 4\n::warning::[fee] idx: 7 -> 5\n")
}

func TestScanLog_OverflowingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	gt.NoError(t, os.WriteFile(path, []byte("[weight] idx: 18446744073709551616 -> 1\n"), 0o644))

	stdout, _, err := runCLI(t, "scan-log", path)
	gt.NoError(t, err)
	gt.Equal(t, stdout, "::warning::[weight] idx: 18446744073709551616 -> 1\n")
}

func TestWriteBatches_ValidatesBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "output")
	env := filepath.Join(dir, "env")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := writeBatches(logger,
		newEntryBatch("output", output, []model.Entry{{Key: "version", Value: "1.2.3"}}),
		newEntryBatch("env", env, []model.Entry{{Key: "VERSION", Value: "1.2.3\nINJECTED=1"}}),
	)
	gt.Error(t, err)

	for _, path := range []string{output, env} {
		_, statErr := os.Stat(path)
		gt.True(t, errors.Is(statErr, os.ErrNotExist))
	}
}

func TestWriteBatches_SkipsUnconfiguredFile(t *testing.T) {
	env := filepath.Join(t.TempDir(), "env")
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	err := writeBatches(logger,
		newEntryBatch("output", "", []model.Entry{{Key: "version", Value: "1.2.3"}}),
		newEntryBatch("env", env, []model.Entry{{Key: "VERSION", Value: "1.2.3"}}),
	)
	gt.NoError(t, err)
	gt.Equal(t, readFile(t, env), "VERSION=1.2.3\n")
	gt.String(t, logs.String()).Contains("No workflow command file, skip writing")
}

func TestScanLog_MissingArgument(t *testing.T) {
	stdout, _, err := runCLI(t, "scan-log")
	gt.True(t, errors.Is(err, model.ErrMissingArgument))
	gt.Equal(t, stdout, "")
}

func TestScanLog_MissingFile(t *testing.T) {
	_, _, err := runCLI(t, "scan-log", filepath.Join(t.TempDir(), "missing.log"))
	gt.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_InvalidLogLevel(t *testing.T) {
	_, _, err := runCLI(t, "--log-level", "verbose", "matrix")
	gt.True(t, errors.Is(err, model.ErrInvalidConfig))
}
