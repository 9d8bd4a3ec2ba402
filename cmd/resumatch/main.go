// Package main is the Resumatch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/resumatch/internal/cli"
	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/extract"
	"github.com/hyperjump/resumatch/internal/filter"
	"github.com/hyperjump/resumatch/internal/match"
	"github.com/hyperjump/resumatch/internal/metrics"
	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/internal/server"
	"github.com/hyperjump/resumatch/internal/store"
	"github.com/hyperjump/resumatch/internal/watcher"
	"github.com/hyperjump/resumatch/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/resumatch/config.yaml"

const defaultServerURL = "http://localhost:8080"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "resumatch server" from the project dir uses the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "filter":
		runFilter()
	case "upload":
		runUpload()
	case "list":
		runList()
	case "delete":
		runDelete()
	case "version", "--version", "-v":
		fmt.Printf("resumatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (store changes, filter timing, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	metrics.Register()

	st, err := store.NewDisk(cfg.Storage.UploadDir, cfg.Storage.AllowedExtensions)
	if err != nil {
		logger.Fatal("Failed to open resume store", zap.Error(err))
	}
	if n, err := st.Count(context.Background()); err == nil {
		metrics.ResumesStored.Set(float64(n))
	}

	svc := filter.NewService(st, extract.NewExtractor(), match.NewScorer(), cfg.Filter.ExtractTimeout(), logger)

	updateGauge := func(event string) func(name string) {
		return func(name string) {
			if n, err := st.Count(context.Background()); err == nil {
				metrics.ResumesStored.Set(float64(n))
			}
			logger.Debug("store changed", zap.String("event", event), zap.String("filename", name))
		}
	}
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(
		st.Dir(),
		cfg.Storage.AllowedExtensions,
		updateGauge("added"),
		updateGauge("removed"),
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}

	srv := server.NewServer(svc, st, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printFilterUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: resumatch filter [flags] <keyword> [keyword ...]\n\n")
	fmt.Fprintf(fs.Output(), "Each argument is one keyword; comma-separated lists also work.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  resumatch filter python
  resumatch filter python "rest api" docker
  resumatch filter python,django,rest
  resumatch filter --output json kubernetes
`)
}

// buildKeywords turns positional args into the keyword list. Each arg is one
// keyword; args containing commas are split, so quoted multi-word keywords
// and comma lists both work.
func buildKeywords(args []string) []string {
	var keywords []string
	for _, arg := range args {
		for _, kw := range strings.Split(arg, ",") {
			kw = strings.TrimSpace(kw)
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}
	return keywords
}

// argsReorder moves any flags (and their values) that appear after positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's
// flag package stops at the first non-flag argument, so
// "resumatch filter python -output json" would otherwise leave -output unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runFilter() {
	filterArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one result per line), or json (parseable)")
	fs.Usage = func() { printFilterUsage(fs) }
	_ = fs.Parse(filterArgs)

	keywords := buildKeywords(fs.Args())
	if len(keywords) == 0 {
		printFilterUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "compact":
		format = cli.OutputCompact
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text, compact, or json\n", *outputFormat)
		os.Exit(1)
	}

	reqBody, err := json.Marshal(models.FilterRequest{Keywords: keywords})
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}
	var response models.FilterResponse
	if err := postJSON(*serverURL+"/api/v1/filter", reqBody, &response); err != nil {
		fmt.Printf("Filter failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteFilterResults(os.Stdout, &response, format); err != nil {
		fmt.Printf("Failed to write results: %v\n", err)
		os.Exit(1)
	}
}

func runUpload() {
	uploadArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: resumatch upload [flags] <file> [file ...]\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(uploadArgs)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			fmt.Printf("Failed to open %s: %v\n", path, err)
			os.Exit(1)
		}
		part, err := mw.CreateFormFile("files", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		_ = f.Close()
		if err != nil {
			fmt.Printf("Failed to add %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	if err := mw.Close(); err != nil {
		fmt.Printf("Failed to finish request: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.Post(*serverURL+"/api/v1/resumes", mw.FormDataContentType(), &buf)
	if err != nil {
		fmt.Printf("Upload failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var result models.UploadResponse
	if err := decodeResponse(resp, &result); err != nil {
		fmt.Printf("Upload failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s (%d files)\n", result.Message, result.Count)
	for _, name := range result.Files {
		fmt.Printf("  %s\n", name)
	}
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/resumes")
	if err != nil {
		fmt.Printf("List failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var result models.ListResponse
	if err := decodeResponse(resp, &result); err != nil {
		fmt.Printf("List failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d resumes stored\n", result.Count)
	for _, name := range result.Resumes {
		fmt.Printf("  %s\n", name)
	}
}

func runDelete() {
	deleteArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: resumatch delete [flags] <filename>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(deleteArgs)

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	name := fs.Arg(0)

	req, err := http.NewRequest(http.MethodDelete,
		*serverURL+"/api/v1/resumes/"+url.PathEscape(name), nil)
	if err != nil {
		fmt.Printf("Delete failed: %v\n", err)
		os.Exit(1)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Delete failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var result map[string]string
	if err := decodeResponse(resp, &result); err != nil {
		fmt.Printf("Delete failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(result["message"])
}

// postJSON posts body to u and decodes the JSON response into out.
func postJSON(u string, body []byte, out interface{}) error {
	resp, err := http.Post(u, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// decodeResponse decodes a JSON response body into out, turning non-2xx
// statuses into errors carrying the server's detail message.
func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Detail != "" {
			return fmt.Errorf("server returned %s: %s", resp.Status, apiErr.Detail)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printUsage() {
	fmt.Print(`Resumatch - keyword filtering for uploaded resumes

Usage:
  resumatch server  [-config path] [-debug]     Start the HTTP server
  resumatch upload  [-server url] <file>...     Upload resume files (PDF/DOCX)
  resumatch list    [-server url]               List stored resumes
  resumatch delete  [-server url] <filename>    Delete a stored resume
  resumatch filter  [-server url] [-output fmt] <keyword>...
                                                Rank resumes by keyword matches
  resumatch version                             Print version
  resumatch help                                Show this help
`)
}
