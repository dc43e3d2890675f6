package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
)

// ServerName is reported in the initialize response.
const ServerName = "forseti-terraform"

// MaxMessageSize bounds the Content-Length of a single message. A document
// at terraform.MaxFileSize may grow when JSON-escaped, so the envelope is
// allowed several times that.
const MaxMessageSize = 4 * terraform.MaxFileSize

// Server hosts the Terraform ruleset over stdio.
type Server struct {
	engine    *terraform.Engine
	documents *DocumentStore
	cache     *resultCache

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	maxMessageSize int

	logger *slog.Logger

	stateMu  sync.RWMutex
	shutdown bool
	exited   bool
}

// NewServer creates a server reading requests from reader and writing
// responses to writer. A nil engine uses the default configuration and a nil
// logger discards output.
func NewServer(reader io.Reader, writer io.Writer, engine *terraform.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if engine == nil {
		engine = terraform.NewEngine(nil, logger)
	}
	cache, err := newResultCache(DefaultCacheSize)
	if err != nil {
		// lru.New only fails for non-positive sizes
		panic(err)
	}
	return &Server{
		engine:    engine,
		documents: NewDocumentStore(),
		cache:     cache,
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    logger,

		maxMessageSize: MaxMessageSize,
	}
}

// Run processes messages until the client sends exit or closes the stream.
func (s *Server) Run() error {
	s.logger.Info("forseti-terraform host starting")

	for {
		s.stateMu.RLock()
		exited := s.exited
		s.stateMu.RUnlock()
		if exited {
			return nil
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Info("client disconnected")
				return nil
			}
			var rpcErr *JSONRPCError
			if errors.As(err, &rpcErr) {
				s.sendResponse(nil, nil, rpcErr)
			}
			s.logger.Error("error reading message", "error", err)
			continue
		}

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("error handling message", "method", msg.Method, "error", err)
		}
	}
}

// readMessage reads a JSON-RPC message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		contentLength, err = strconv.Atoi(strings.TrimSpace(value))
		if err != nil || contentLength < 0 {
			return nil, fmt.Errorf("invalid Content-Length %q", value)
		}
	}

	if contentLength < 0 {
		return nil, errors.New("missing Content-Length header")
	}

	if contentLength > s.maxMessageSize {
		// drain the body so the next header is read in sync
		if _, err := io.CopyN(io.Discard, s.reader, int64(contentLength)); err != nil {
			return nil, err
		}
		return nil, &JSONRPCError{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("message of %d bytes exceeds the %d byte limit", contentLength, s.maxMessageSize),
		}
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, &JSONRPCError{Code: CodeParseError, Message: "parse error: " + err.Error()}
	}

	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, rpcErr *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}

	if rpcErr != nil {
		msg.Error = rpcErr
	} else {
		resultBytes, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("error marshaling result", "error", err)
			msg.Error = &JSONRPCError{Code: -32603, Message: err.Error()}
		} else {
			msg.Result = resultBytes
		}
	}

	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		Method:  method,
	}

	if params != nil {
		paramsBytes, err := json.Marshal(params)
		if err != nil {
			s.logger.Error("error marshaling notification", "method", method, "error", err)
			return
		}
		msg.Params = paramsBytes
	}

	s.writeMessage(&msg)
}

// writeMessage writes a JSON-RPC message to the output stream.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("error marshaling message", "error", err)
		return
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(s.writer, header); err != nil {
		s.logger.Error("error writing header", "error", err)
		return
	}
	if _, err := s.writer.Write(body); err != nil {
		s.logger.Error("error writing body", "error", err)
	}
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *JSONRPCMessage) error {
	s.logger.Debug("received", "method", msg.Method)

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		return s.handleExit(msg)
	case "ruleset/capabilities":
		s.sendResponse(msg.ID, s.engine.Capabilities(), nil)
		return nil
	case "ruleset/preprocess":
		return s.handlePreprocess(msg)
	case "ruleset/analyze":
		return s.handleAnalyze(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	default:
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    CodeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// invalidParams answers a request whose params could not be decoded.
func (s *Server) invalidParams(msg *JSONRPCMessage, err error) error {
	if msg.ID != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: CodeInvalidParams, Message: err.Error()})
	}
	return err
}

// decodeParams unmarshals msg.Params into v. Missing params are an error.
func decodeParams(msg *JSONRPCMessage, v any) error {
	if len(msg.Params) == 0 {
		return errors.New("missing params")
	}
	return json.Unmarshal(msg.Params, v)
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.invalidParams(msg, err)
		}
	}
	if params.RootURI != "" {
		s.logger.Info("project root", "path", terraform.URIToPath(params.RootURI))
	}

	s.sendResponse(msg.ID, InitializeResult{
		Capabilities: ServerCapabilities{
			Capabilities: s.engine.Capabilities(),
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save:      &SaveOptions{IncludeText: true},
			},
		},
		ServerInfo: ServerInfo{Name: ServerName, Version: terraform.Version},
	}, nil)
	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.stateMu.Lock()
	s.shutdown = true
	s.stateMu.Unlock()

	s.sendResponse(msg.ID, nil, nil)
	return nil
}

func (s *Server) handleExit(_ *JSONRPCMessage) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if !s.shutdown {
		s.logger.Warn("exit received before shutdown")
	}
	s.exited = true
	return nil
}

// --- Ruleset handlers ---

func (s *Server) handlePreprocess(msg *JSONRPCMessage) error {
	var params PreprocessParams
	if err := decodeParams(msg, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	s.sendResponse(msg.ID, terraform.Preprocess(params.URIs), nil)
	return nil
}

func (s *Server) handleAnalyze(msg *JSONRPCMessage) error {
	var params AnalyzeParams
	if err := decodeParams(msg, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	if params.URI == "" {
		return s.invalidParams(msg, errors.New("uri is required"))
	}

	result, err := s.analyze(params.URI, params.Content)
	if err != nil {
		code := -32603
		if errors.Is(err, terraform.ErrFileTooLarge) {
			code = CodeFileTooLarge
		}
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: code, Message: err.Error()})
		return nil
	}

	s.sendResponse(msg.ID, result, nil)
	return nil
}

// analyze runs the engine, consulting the result cache first.
func (s *Server) analyze(uri, content string) (terraform.FileResult, error) {
	language := terraform.InferLanguage(uri)
	if language != "" {
		if diags, ok := s.cache.get(language, content); ok {
			return terraform.FileResult{URI: uri, Language: language, Diagnostics: diags}, nil
		}
	}

	result, err := s.engine.AnalyzeFile(uri, content)
	if err != nil {
		return result, err
	}
	if language != "" {
		s.cache.add(language, content, result.Diagnostics)
	}
	return result, nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := decodeParams(msg, &params); err != nil {
		return err
	}

	s.documents.Open(params.TextDocument)
	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := decodeParams(msg, &params); err != nil {
		return err
	}

	s.documents.Close(params.TextDocument.URI)
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []Diagnostic{},
	})
	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := decodeParams(msg, &params); err != nil {
		return err
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}

	// Full sync: the last change carries the whole document.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	uri := params.TextDocument.URI
	if !s.documents.Update(uri, text, params.TextDocument.Version) {
		s.documents.Open(TextDocumentItem{URI: uri, Text: text, Version: params.TextDocument.Version})
	}
	s.publishDiagnostics(uri)
	return nil
}

func (s *Server) handleDidSave(msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := decodeParams(msg, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	if params.Text != nil {
		version := 0
		if doc := s.documents.Get(uri); doc != nil {
			version = doc.Version
		}
		if !s.documents.Update(uri, *params.Text, version) {
			s.documents.Open(TextDocumentItem{URI: uri, Text: *params.Text})
		}
	}
	s.publishDiagnostics(uri)
	return nil
}
