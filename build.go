//go:build ignore

// build.go - LinkedInsights build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, web, report, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "github.com/SapirCardona/linkedinsights"

var (
	distDir = "dist"

	// source dir under cmd/ -> binary name
	executables = map[string]string{
		"web":    "linkedinsights-web",
		"report": "linkedinsights",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	start := time.Now()
	switch *target {
	case "all":
		for _, name := range []string{"web", "report"} {
			buildExecutable(name, *verbose)
		}
	case "web", "report":
		buildExecutable(*target, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(start).Round(time.Millisecond)))
}

func buildExecutable(name string, verbose bool) {
	exeName := executables[name]
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", name))

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-s -w -X %s/internal/app.BuildTime=%s",
		module, time.Now().UTC().Format(time.RFC3339))

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	if verbose {
		fmt.Printf("go %s\n", strings.Join(args, " "))
	}
	if err := run(verbose, "go", args...); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, float64(info.Size())/1024/1024))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := run(true, "go", args...); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
}

func clean() {
	printInfo("Cleaning build artifacts...")
	for _, dir := range []string{distDir, "logs"} {
		if err := os.RemoveAll(dir); err != nil {
			printError(fmt.Sprintf("Failed to remove %s: %v", dir, err))
		}
	}
}

func run(stream bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if stream {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

func printInfo(msg string)    { fmt.Printf("%s[INFO]%s %s\n", colorCyan, colorReset, msg) }
func printSuccess(msg string) { fmt.Printf("%s[OK]%s %s\n", colorGreen, colorReset, msg) }
func printError(msg string)   { fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg) }

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all      Build the web server and the CLI (default)")
	fmt.Println("  web      Build the web server")
	fmt.Println("  report   Build the linkedinsights CLI")
	fmt.Println("  test     Run all tests with the race detector")
	fmt.Println("  clean    Remove dist/ and logs/")
}
