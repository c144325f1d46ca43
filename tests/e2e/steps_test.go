package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cucumber/godog"
)

// binaryPath holds the path to the compiled binary (set once in TestMain)
var binaryPath string

// testContext holds state for a single scenario
type testContext struct {
	tmpDir   string
	exitCode int
	output   string
}

// buildBinary compiles the wardforge binary once
func buildBinary() (string, error) {
	tmpFile, err := os.CreateTemp("", "wardforge-test-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpFile.Close()

	// Get the directory of this test file to find the project root
	_, thisFile, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", tmpFile.Name(), "./cmd/wardforge")
	cmd.Dir = projectRoot
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("build failed: %w\n%s", err, stderr.String())
	}

	return tmpFile.Name(), nil
}

// TestMain compiles the binary once before running all tests
func TestMain(m *testing.M) {
	var err error
	binaryPath, err = buildBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build binary: %v\n", err)
		os.Exit(1)
	}
	defer os.Remove(binaryPath)

	code := m.Run()
	os.Exit(code)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &testContext{}

	// Setup: create temp data directory before each scenario
	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tmpDir, err := os.MkdirTemp("", "wardforge-e2e-*")
		if err != nil {
			return ctx, err
		}
		tc.tmpDir = tmpDir
		return ctx, nil
	})

	// Teardown: cleanup temp directory after each scenario
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.tmpDir != "" {
			os.RemoveAll(tc.tmpDir)
		}
		return ctx, nil
	})

	// Step definitions
	sc.Step(`^wardforge is built$`, tc.wardforgeIsBuilt)
	sc.Step(`^I run wardforge with "([^"]*)"$`, tc.iRunWardforgeWith)
	sc.Step(`^the exit code should be (\d+)$`, tc.theExitCodeShouldBe)
	sc.Step(`^the output should contain "([^"]*)"$`, tc.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, tc.theOutputShouldNotContain)
	sc.Step(`^the data file "([^"]*)" contains:$`, tc.theDataFileContains)
	sc.Step(`^"([^"]*)" should exist$`, tc.shouldExist)
	sc.Step(`^the data file "([^"]*)" should have (\d+) lines$`, tc.dataFileShouldHaveLines)
	sc.Step(`^the data file "([^"]*)" should contain "([^"]*)"$`, tc.dataFileShouldContain)
	sc.Step(`^the data file "([^"]*)" should not contain "([^"]*)"$`, tc.dataFileShouldNotContain)
}

func (tc *testContext) wardforgeIsBuilt() error {
	if binaryPath == "" {
		return fmt.Errorf("binary not built")
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		return fmt.Errorf("binary does not exist at %s", binaryPath)
	}
	return nil
}

func (tc *testContext) iRunWardforgeWith(args string) error {
	// Replace {tmpdir} placeholder with actual temp directory
	args = strings.ReplaceAll(args, "{tmpdir}", tc.tmpDir)

	// Split args respecting quotes
	argList := splitArgs(args)

	cmd := exec.Command(binaryPath, argList...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	tc.output = output.String()

	if exitErr, ok := err.(*exec.ExitError); ok {
		tc.exitCode = exitErr.ExitCode()
	} else if err != nil {
		return fmt.Errorf("failed to run command: %w", err)
	} else {
		tc.exitCode = 0
	}

	return nil
}

func (tc *testContext) theExitCodeShouldBe(expected int) error {
	if tc.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nOutput:\n%s", expected, tc.exitCode, tc.output)
	}
	return nil
}

func (tc *testContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(tc.output, expected) {
		return fmt.Errorf("output does not contain %q\nOutput:\n%s", expected, tc.output)
	}
	return nil
}

func (tc *testContext) theOutputShouldNotContain(unexpected string) error {
	if strings.Contains(tc.output, unexpected) {
		return fmt.Errorf("output contains %q\nOutput:\n%s", unexpected, tc.output)
	}
	return nil
}

// theDataFileContains seeds a record file in the scenario's data directory.
func (tc *testContext) theDataFileContains(name string, content *godog.DocString) error {
	body := strings.TrimSpace(content.Content)
	if body != "" {
		body += "\n"
	}
	return os.WriteFile(filepath.Join(tc.tmpDir, name), []byte(body), 0o644)
}

func (tc *testContext) shouldExist(path string) error {
	path = strings.ReplaceAll(path, "{tmpdir}", tc.tmpDir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	return nil
}

func (tc *testContext) dataFileShouldHaveLines(name string, count int) error {
	lines, err := tc.readDataFile(name)
	if err != nil {
		return err
	}
	if len(lines) != count {
		return fmt.Errorf("expected %d lines in %s, got %d:\n%s", count, name, len(lines), strings.Join(lines, "\n"))
	}
	return nil
}

func (tc *testContext) dataFileShouldContain(name, expected string) error {
	lines, err := tc.readDataFile(name)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if strings.Contains(line, expected) {
			return nil
		}
	}
	return fmt.Errorf("%s does not contain %q:\n%s", name, expected, strings.Join(lines, "\n"))
}

func (tc *testContext) dataFileShouldNotContain(name, unexpected string) error {
	if err := tc.dataFileShouldContain(name, unexpected); err == nil {
		return fmt.Errorf("%s contains %q", name, unexpected)
	}
	return nil
}

// readDataFile returns the non-empty lines of a file in the data directory.
// A missing file reads as empty.
func (tc *testContext) readDataFile(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(tc.tmpDir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// splitArgs splits a command line string into arguments. Single quotes
// group multi-word values since double quotes delimit the Gherkin step
// argument itself.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false

	for _, r := range s {
		switch {
		case r == '"' || r == '\'':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
