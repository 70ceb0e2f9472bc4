package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdmanual/internal/hints"
)

// Doctor statuses.
const (
	doctorReady    = "ready"
	doctorWarnings = "warnings"
	doctorErrors   = "errors"
)

// doctorResult is the outcome of the doctor checks.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo describes the browser a manual build would launch.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo describes where the CLI runs.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo reports whether Chrome can create its profile directory.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// lookPath locates Chrome; replaced in tests.
var lookPath = launcher.LookPath

// chromeVersion asks the browser binary for its version; replaced in tests.
var chromeVersion = func(bin string) (string, error) {
	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- bin is the located browser
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ciVars are set by the CI services the sandbox warning covers.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// runDoctorCmd checks the manual build prerequisites and returns an exit code:
// ExitSuccess when a manual can be printed (warnings included), ExitGeneral
// otherwise.
func runDoctorCmd(args []string, env *Environment) int {
	asJSON := false
	for _, arg := range args {
		switch arg {
		case "--json":
			asJSON = true
		case "-h", "--help":
			printCommandUsage(env.Stdout, cmdDoctor)
			return ExitSuccess
		default:
			fmt.Fprintf(env.Stderr, "error: %v: unexpected argument %q\n", ErrUsage, arg)
			return ExitUsage
		}
	}

	result := runDoctor(env.Getenv)
	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == doctorErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor runs every check and derives the overall status.
func runDoctor(getenv func(string) string) *doctorResult {
	r := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
	}

	r.Chrome = findChrome(r)
	r.Env.Container, r.Env.ContainerHint = detectContainer(getenv)
	r.Env.CI = slices.ContainsFunc(ciVars, func(v string) bool { return getenv(v) != "" })
	if (r.Env.Container || r.Env.CI) && r.Env.NoSandbox != "1" {
		r.Warnings = append(r.Warnings, "sandboxed Chrome usually fails in containers and CI: set ROD_NO_SANDBOX=1")
	}
	r.System.TempWritable = tempWritable()
	if !r.System.TempWritable {
		r.Errors = append(r.Errors, "temp directory "+os.TempDir()+" is not writable")
	}

	switch {
	case len(r.Errors) > 0:
		r.Status = doctorErrors
	case len(r.Warnings) > 0:
		r.Status = doctorWarnings
	default:
		r.Status = doctorReady
	}
	return r
}

// findChrome resolves the browser from ROD_BROWSER_BIN or the rod search path
// and records problems on r.
func findChrome(r *doctorResult) chromeInfo {
	path := r.Env.BrowserBin
	if path == "" {
		var ok bool
		if path, ok = lookPath(); !ok {
			r.Errors = append(r.Errors, "no Chrome/Chromium found: install one or set ROD_BROWSER_BIN")
			return chromeInfo{}
		}
	}
	if _, err := os.Stat(path); err != nil {
		r.Errors = append(r.Errors, "ROD_BROWSER_BIN points at a missing file: "+path)
		return chromeInfo{}
	}

	info := chromeInfo{Found: true, Path: path, Sandbox: r.Env.NoSandbox != "1"}
	v, err := chromeVersion(path)
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("could not read Chrome version: %v", err))
	} else {
		info.Version = v
	}
	return info
}

// detectContainer returns whether a container was detected and the signal
// that revealed it.
func detectContainer(getenv func(string) string) (bool, string) {
	switch {
	case hints.IsInContainer():
		return true, "/.dockerenv"
	case getenv("container") != "":
		return true, "container=" + getenv("container")
	case getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// tempWritable reports whether a file can be created in the temp directory,
// where rod keeps the browser profile.
func tempWritable() bool {
	f, err := os.CreateTemp("", "mdmanual-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult prints one line per check, then the findings.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdmanual doctor")
	fmt.Fprintln(w)

	if r.Chrome.Found {
		version := r.Chrome.Version
		if version == "" {
			version = "unknown version"
		}
		sandbox := "sandbox on"
		if !r.Chrome.Sandbox {
			sandbox = "sandbox off"
		}
		fmt.Fprintf(w, "  browser    %s (%s, %s)\n", r.Chrome.Path, version, sandbox)
	} else {
		fmt.Fprintln(w, "  browser    [ERROR] Not found")
	}

	platform := r.Env.OS + "/" + r.Env.Arch
	if r.Env.Container {
		platform += ", container: " + r.Env.ContainerHint
	}
	if r.Env.CI {
		platform += ", CI"
	}
	fmt.Fprintf(w, "  platform   %s\n", platform)

	temp := "writable"
	if !r.System.TempWritable {
		temp = "[ERROR] not writable"
	}
	fmt.Fprintf(w, "  temp dir   %s\n", temp)
	fmt.Fprintln(w)

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "[WARN] %s\n", warn)
	}
	for _, err := range r.Errors {
		fmt.Fprintf(w, "[ERROR] %s\n", err)
	}

	switch r.Status {
	case doctorReady:
		fmt.Fprintln(w, "Status: ready to build manuals")
	case doctorWarnings:
		fmt.Fprintln(w, "Status: ready, with warnings")
	default:
		fmt.Fprintln(w, "Status: manual builds will fail")
	}
}
