package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/deepnoodle-ai/stackc"
	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/deepnoodle-ai/stackc/viz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const maxRequestBytes = 1 << 20

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              a.v.GetString("addr"),
				Handler:           newRouter(a.logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info().Str("addr", srv.Addr).Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			a.logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", ":8080", "address to listen on")
	return cmd
}

func newRouter(logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)
	r.Post("/compile", handleCompile(logger))
	r.Post("/ast", handleAST(logger))
	return r
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLogger := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(reqLogger.WithContext(r.Context()))
			start := time.Now()
			next.ServeHTTP(ww, r)
			reqLogger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// CompileRequest is the body of POST /compile and POST /ast.
type CompileRequest struct {
	Source   string `json:"source"`
	Filename string `json:"filename,omitempty"`
	Pop      bool   `json:"pop,omitempty"`
	Halt     bool   `json:"halt,omitempty"`
}

// CompileResponse is the body of a successful POST /compile.
type CompileResponse struct {
	Instructions []string `json:"instructions"`
}

// ASTResponse is the body of a successful POST /ast.
type ASTResponse struct {
	AST string `json:"ast"`
	DOT string `json:"dot"`
}

// ErrorResponse lists the diagnostics that stopped a compilation.
type ErrorResponse struct {
	Errors []APIError `json:"errors"`
}

// APIError is one diagnostic.
type APIError struct {
	Kind    string `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func handleCompile(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		code, err := stackc.Compile(r.Context(), req.Source,
			stackc.WithFilename(req.Filename),
			stackc.WithLogger(logger),
			stackc.WithPopExpressionResults(req.Pop),
			stackc.WithHalt(req.Halt),
		)
		if err != nil {
			writeCompileError(w, r, err)
			return
		}
		instructions := make([]string, 0, code.InstructionCount())
		for _, instr := range code.Instructions() {
			instructions = append(instructions, instr.String())
		}
		writeJSON(w, r, http.StatusOK, CompileResponse{Instructions: instructions})
	}
}

func handleAST(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		program, err := stackc.Parse(r.Context(), req.Source,
			stackc.WithFilename(req.Filename),
			stackc.WithLogger(logger),
		)
		if err != nil {
			writeCompileError(w, r, err)
			return
		}
		var dot bytes.Buffer
		if err := viz.Render(&dot, program); err != nil {
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, r, http.StatusOK, ASTResponse{AST: program.String(), DOT: dot.String()})
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (CompileRequest, bool) {
	var req CompileRequest
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeError(w, r, http.StatusUnsupportedMediaType, "content type must be application/json")
		return req, false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}

func writeCompileError(w http.ResponseWriter, r *http.Request, err error) {
	diagnostics := errors.Diagnostics(err)
	if len(diagnostics) == 0 {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	resp := ErrorResponse{Errors: make([]APIError, 0, len(diagnostics))}
	for _, d := range diagnostics {
		resp.Errors = append(resp.Errors, APIError{
			Kind:    d.Kind,
			Code:    string(d.Code),
			Message: d.Message,
			Line:    d.Line,
			Column:  d.Column,
		})
	}
	writeJSON(w, r, http.StatusUnprocessableEntity, resp)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, ErrorResponse{Errors: []APIError{{Kind: "request error", Message: msg}}})
}

// writeJSON logs encode failures to the request's logger; the status line is
// already sent by then.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("call", "writeJSON").
			Int("status", status).
			Msg("failed to write response")
	}
}
