// Package main is the pdfqa CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mukunthans/pdf-qa/internal/cli"
	"github.com/mukunthans/pdf-qa/internal/config"
	"github.com/mukunthans/pdf-qa/internal/embedding"
	"github.com/mukunthans/pdf-qa/internal/extract"
	"github.com/mukunthans/pdf-qa/internal/generate"
	"github.com/mukunthans/pdf-qa/internal/ingest"
	"github.com/mukunthans/pdf-qa/internal/models"
	"github.com/mukunthans/pdf-qa/internal/qa"
	"github.com/mukunthans/pdf-qa/internal/retrieval"
	"github.com/mukunthans/pdf-qa/internal/server"
	"github.com/mukunthans/pdf-qa/internal/tui"
	"github.com/mukunthans/pdf-qa/internal/vector"
	"github.com/mukunthans/pdf-qa/internal/watcher"
	"github.com/mukunthans/pdf-qa/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/pdfqa/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "pdfqa server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
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
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "process":
		runProcess()
	case "ask":
		runAsk()
	case "chat":
		runChat()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("pdfqa version %s\n", version)
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
	filePath := fs.String("file", "", "document to process at startup (required for watch mode)")
	debug := fs.Bool("debug", false, "enable debug logging (chunking, retrieval scores, etc.)")
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

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if *filePath != "" {
		doc, err := components.Processor.ProcessFile(context.Background(), *filePath)
		if err != nil {
			logger.Fatal("Failed to process document", zap.Error(err))
		}
		logger.Info("document processed",
			zap.String("name", doc.Name),
			zap.Int("chunks", doc.Chunks),
		)

		if cfg.Watch.Enabled {
			processor := components.Processor
			watchOpts := []watcher.WatcherOption{
				watcher.WithLogger(logger),
				watcher.WithOnRemove(func(path string) {
					cur := processor.Current()
					if cur == nil || cur.Path != path {
						return
					}
					processor.Clear()
					logger.Warn("watched document removed; index cleared", zap.String("path", path))
				}),
			}
			if cfg.Watch.DebounceMS > 0 {
				watchOpts = append(watchOpts, watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond))
			}
			watchSvc := watcher.NewWatcher(doc.Path, func(path string) {
				cur := processor.Current()
				if cur == nil || cur.Path != path {
					return
				}
				if _, err := processor.ProcessFile(context.Background(), path); err != nil {
					logger.Warn("reprocess after change failed", zap.String("path", path), zap.Error(err))
				}
			}, watchOpts...)
			watchCtx, watchCancel := context.WithCancel(context.Background())
			defer watchCancel()
			if err := watchSvc.Start(watchCtx); err != nil {
				logger.Fatal("Failed to start watcher", zap.Error(err))
			}
			defer watchSvc.Stop()
		}
	} else if cfg.Watch.Enabled {
		logger.Warn("watch mode needs --file; uploaded documents are not watched")
	}

	srv := server.NewServer(components.Engine, components.Processor, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runProcess() {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = process in this process)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: pdfqa process [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		doc, err := uploadViaHTTP(*serverURL, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteDocument(os.Stdout, doc, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct mode: nothing survives process exit, but this verifies the
	// document extracts and chunks cleanly.
	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	doc, err := components.Processor.ProcessFile(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteDocument(os.Stdout, doc, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// printAskUsage prints ask subcommand usage and answer interpretation hints.
func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: pdfqa ask [flags] <question>\n\n")
	fmt.Fprintf(fs.Output(), "Question is all remaining arguments joined by spaces. Multi-word questions work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Answers come from the document loaded on the server (or from --file in direct mode).
  • Use --show-context to see the chunks the answer was grounded on.
  • Use --top-k to retrieve more or fewer context chunks.
  • Use --server "" --file <doc> to answer without a running server.

Examples:
  pdfqa ask what is the warranty period
  pdfqa ask "what is the warranty period"        # same as above
  pdfqa ask --show-context how do I reset the unit
  pdfqa ask --server "" --file manual.pdf what does section 3 cover
`)
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting (e.g. "fuse rating" vs fuse rating).
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// reorderFlagArgs moves any flags (and their values) that appear after the question
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "pdfqa ask \"question\" -top-k 5"
// would otherwise leave -top-k unparsed.
func reorderFlagArgs(args []string) []string {
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

func parseOutputFormat(name string) (cli.OutputFormat, error) {
	switch name {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return cli.OutputText, fmt.Errorf("unknown output format %q; use text or json", name)
	}
}

func runAsk() {
	askArgs := reorderFlagArgs(os.Args[2:])

	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer in this process, needs --file)")
	filePath := fs.String("file", "", "document to process before asking")
	topK := fs.Int("top-k", 0, "number of context chunks to retrieve (0 = configured default)")
	showContext := fs.Bool("show-context", false, "print the context chunks used for the answer")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(askArgs)

	question := buildQuestion(fs.Args())
	if question == "" {
		printAskUsage(fs)
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	req := &models.AskRequest{Question: question, TopK: *topK}

	if *serverURL != "" {
		if *filePath != "" {
			if _, err := uploadViaHTTP(*serverURL, *filePath); err != nil {
				fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
				os.Exit(1)
			}
		}
		answer, err := askViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnswer(os.Stdout, answer, format, *showContext); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, `Direct mode needs a document: pdfqa ask --server "" --file <doc> <question>`)
		os.Exit(1)
	}
	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	if _, err := components.Processor.ProcessFile(ctx, *filePath); err != nil {
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		os.Exit(1)
	}
	answer, err := components.Engine.Ask(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, answer, format, *showContext); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer in this process, needs --file)")
	filePath := fs.String("file", "", "document to process before the session")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		if *filePath != "" {
			if _, err := uploadViaHTTP(*serverURL, *filePath); err != nil {
				fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
				os.Exit(1)
			}
		}
		client := &httpAsker{baseURL: *serverURL}
		if _, err := statusViaHTTP(*serverURL); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot reach server: %v\n", err)
			os.Exit(1)
		}
		runTUI(client)
		return
	}

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, `Direct mode needs a document: pdfqa chat --server "" --file <doc>`)
		os.Exit(1)
	}
	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	if _, err := components.Processor.ProcessFile(context.Background(), *filePath); err != nil {
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		os.Exit(1)
	}
	runTUI(components.Engine)
}

func runTUI(service tui.AskPort) {
	if _, err := tea.NewProgram(tui.New(service)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Chat session failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = inspect in this process)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		snap, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteStatus(os.Stdout, snap.Document, snap.Index, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()
	if err := cli.WriteStatus(os.Stdout, components.Engine.Document(), components.Engine.Info(), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL string, req *models.AskRequest) (*models.Answer, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var answer models.Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &answer, nil
}

func uploadViaHTTP(serverURL, path string) (*models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := http.Post(serverURL+"/api/v1/documents", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Document *models.Document `json:"document"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Document, nil
}

// statusSnapshot is the subset of GET /api/v1/status this CLI consumes.
type statusSnapshot struct {
	Index    models.IndexInfo `json:"index"`
	Document *models.Document `json:"document"`
}

func statusViaHTTP(serverURL string) (*statusSnapshot, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// httpAsker adapts the HTTP API to the chat session port.
type httpAsker struct {
	baseURL string
}

func (c *httpAsker) Ask(_ context.Context, req *models.AskRequest) (*models.Answer, error) {
	return askViaHTTP(c.baseURL, req)
}

func (c *httpAsker) Document() *models.Document {
	s, err := statusViaHTTP(c.baseURL)
	if err != nil {
		return nil
	}
	return s.Document
}

func (c *httpAsker) Ready() bool {
	s, err := statusViaHTTP(c.baseURL)
	if err != nil {
		return false
	}
	return s.Index.Status == models.IndexStatusReady
}

// Components holds initialized pipeline services.
type Components struct {
	Provider  *embedding.Provider
	Index     *vector.MemoryIndex
	Processor *ingest.Processor
	Retriever *retrieval.Retriever
	Generator generate.Generator
	Engine    *qa.Engine
}

func (c *Components) Close() {
	if c.Provider != nil {
		_ = c.Provider.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	provider := embedding.NewProvider(&cfg.Embedding, embedding.WithLogger(logger))

	index, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}

	processor := ingest.NewProcessor(extract.NewExtractor(), provider, index, &cfg.Document,
		ingest.WithLogger(logger))
	retriever := retrieval.NewRetriever(provider, index, &cfg.Retrieval,
		retrieval.WithLogger(logger))

	var generator generate.Generator
	if cfg.Generation.Model == "mock" {
		generator = generate.NewMockGenerator()
	} else {
		generator = generate.NewOpenAIGenerator(&cfg.Generation, generate.WithLogger(logger))
	}

	engine := qa.NewEngine(processor, retriever, generator, index, qa.WithLogger(logger))

	return &Components{
		Provider:  provider,
		Index:     index,
		Processor: processor,
		Retriever: retriever,
		Generator: generator,
		Engine:    engine,
	}, nil
}

// mustInitialize loads config, builds the logger, and initializes components,
// exiting on any failure. Used by the one-shot subcommands.
func mustInitialize(configPath string) (*Components, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	return components, logger
}

func printUsage() {
	fmt.Println(`pdfqa - Question answering over a single document

Usage:
  pdfqa server [flags]            Start the HTTP server
  pdfqa process [flags] <file>    Process a document
  pdfqa ask [flags] <question>    Ask a question about the loaded document
  pdfqa chat [flags]              Interactive question session
  pdfqa status [flags]            Show document and index status
  pdfqa version                   Show version
  pdfqa help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/pdfqa/config.yaml)
  --file string      Document to process at startup (required for watch mode)
  --debug            Enable debug logging (chunking, retrieval scores, etc.)

Process Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to process in this process.
  --output string    Output format: text or json (default: text)

Ask Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct mode.
  --file string      Document to process before asking (required for direct mode)
  --top-k int        Number of context chunks to retrieve (0 = configured default)
  --show-context     Print the context chunks used for the answer
  --output string    Output format: text or json (default: text)

Chat Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct mode.
  --file string      Document to process before the session

Status Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct mode.
  --output string    Output format: text or json (default: text)

Examples:
  pdfqa server --file manual.pdf
  pdfqa process report.pdf
  pdfqa ask what is the warranty period
  pdfqa ask --show-context "how do I reset the unit"
  pdfqa ask --output json what is the fuse rating   # structured JSON for other apps
  pdfqa ask --server "" --file manual.pdf what does section 3 cover
  pdfqa chat
  pdfqa status --output json`)
}
