// Package router is the single place that knows, for each intent,
// which records to fetch, which formatter to apply, and which
// generation template answers the query. Classification failures
// degrade to the general path; dispatch failures surface to the caller.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuspilot/campuspilot/internal/audit"
	"github.com/campuspilot/campuspilot/internal/format"
	"github.com/campuspilot/campuspilot/internal/intent"
	"github.com/campuspilot/campuspilot/internal/interfaces"
	"github.com/campuspilot/campuspilot/internal/llm"
	"github.com/campuspilot/campuspilot/internal/retrieval"
	"github.com/campuspilot/campuspilot/pkg/models"
)

// ErrEmptyQuery rejects blank input before classification is attempted.
var ErrEmptyQuery = errors.New("query must not be empty")

// noDocumentsContext stands in when retrieval returns zero documents,
// so the generator never sees an empty context block.
const noDocumentsContext = "No relevant documents were found."

// searchUnavailable stands in for search output when the search service
// fails; the general path still reaches generation.
const searchUnavailable = "Unable to search at the moment."

// Deps are the collaborators a Router dispatches to.
type Deps struct {
	Classifier interfaces.Classifier
	Policy     intent.Policy
	Store      interfaces.RecordStore
	Generator  interfaces.Generator
	Retriever  interfaces.Retriever
	Searcher   interfaces.Searcher
	Trail      *audit.Logger
	Logger     *zap.Logger
}

// Router dispatches chat queries. Stateless apart from its injected
// collaborators; safe for concurrent use.
type Router struct {
	deps   Deps
	logger *zap.Logger
}

// New wires a router. Classifier, Store, Generator, Retriever and
// Searcher must be non-nil; Trail and Logger are optional.
func New(deps Deps) *Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{deps: deps, logger: logger.Named("router")}
}

// HandleChat classifies the query, applies the confidence policy, and
// runs the matching data or open-domain pipeline. Any record-store,
// retrieval or generation failure is returned as a single error; no
// partial answer is produced.
func (r *Router) HandleChat(ctx context.Context, callerID int64, query string) (models.ChatResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.ChatResponse{}, ErrEmptyQuery
	}

	trail := audit.Trail{
		Timestamp: time.Now(),
		RequestID: uuid.New().String(),
		CallerID:  callerID,
		Query:     query,
	}

	classifyStart := time.Now()
	prediction := r.deps.Classifier.PredictCached(query)
	resolved := r.deps.Policy.Resolve(prediction)
	trail.Steps = append(trail.Steps, audit.Step{Name: "classify", DurationMs: time.Since(classifyStart).Milliseconds()})
	trail.Intent = resolved.String()
	trail.Confidence = prediction.Confidence

	r.logger.Info("query classified",
		zap.Int64("caller_id", callerID),
		zap.String("intent", resolved.String()),
		zap.Float64("confidence", prediction.Confidence),
		zap.String("raw_label", prediction.Label))

	response, err := r.dispatch(ctx, callerID, query, resolved, &trail)
	if err != nil {
		trail.Error = err.Error()
		r.deps.Trail.Record(trail)
		r.logger.Error("dispatch failed",
			zap.Int64("caller_id", callerID),
			zap.String("intent", resolved.String()),
			zap.Error(err))
		return models.ChatResponse{}, err
	}

	r.deps.Trail.Record(trail)
	return models.ChatResponse{Response: response, QueryType: resolved.String()}, nil
}

// dispatch branches exhaustively over the closed intent set. Every
// branch ends in a generation call.
func (r *Router) dispatch(ctx context.Context, callerID int64, query string, it intent.Intent, trail *audit.Trail) (string, error) {
	switch it {
	case intent.Attendance:
		trail.Branch = "records"
		records, err := r.deps.Store.AttendanceByUser(ctx, callerID)
		if err != nil {
			return "", fmt.Errorf("attendance fetch failed: %w", err)
		}
		return r.conversational(ctx, query, format.Attendance(records), trail)

	case intent.Marks:
		trail.Branch = "records"
		records, err := r.deps.Store.MarksByUser(ctx, callerID)
		if err != nil {
			return "", fmt.Errorf("marks fetch failed: %w", err)
		}
		return r.conversational(ctx, query, format.Marks(records), trail)

	case intent.Fees:
		trail.Branch = "records"
		records, err := r.deps.Store.FeesByUser(ctx, callerID)
		if err != nil {
			return "", fmt.Errorf("fees fetch failed: %w", err)
		}
		return r.conversational(ctx, query, format.Fees(records), trail)

	case intent.Course:
		trail.Branch = "records"
		records, err := r.deps.Store.CoursesForStudent(ctx, callerID)
		if err != nil {
			return "", fmt.Errorf("course fetch failed: %w", err)
		}
		return r.conversational(ctx, query, format.Courses(records), trail)

	case intent.Assignment:
		trail.Branch = "records"
		records, err := r.deps.Store.RecentAssignments(ctx)
		if err != nil {
			return "", fmt.Errorf("assignment fetch failed: %w", err)
		}
		return r.conversational(ctx, query, format.Assignments(records), trail)

	case intent.UserInfo:
		trail.Branch = "records"
		profile, err := r.deps.Store.UserByID(ctx, callerID)
		if err != nil {
			return "", fmt.Errorf("profile fetch failed: %w", err)
		}
		return r.conversational(ctx, query, format.User(profile), trail)

	case intent.Notices:
		trail.Branch = "records"
		records, err := r.deps.Store.RecentNotices(ctx)
		if err != nil {
			return "", fmt.Errorf("notice fetch failed: %w", err)
		}
		return r.conversational(ctx, query, format.Notices(records), trail)

	case intent.CollegeInfo:
		trail.Branch = "retrieval"
		return r.collegeInfo(ctx, query, trail)

	case intent.General:
		trail.Branch = "search"
		return r.general(ctx, query, trail)
	}

	// Unreachable given the closed intent set; a new intent without a
	// branch is a programming error and must fail loudly.
	return "", fmt.Errorf("no dispatch branch for intent %q", it)
}

// conversational generates an answer from a record digest. The digest
// is never empty: formatters emit a fixed "no records" sentence for
// empty inputs.
func (r *Router) conversational(ctx context.Context, query, digest string, trail *audit.Trail) (string, error) {
	genStart := time.Now()
	out, err := r.deps.Generator.Generate(ctx, llm.TemplateConversational, map[string]string{
		"query":     query,
		"user_data": digest,
	})
	trail.Steps = append(trail.Steps, audit.Step{Name: "generate", DurationMs: time.Since(genStart).Milliseconds()})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return out, nil
}

func (r *Router) collegeInfo(ctx context.Context, query string, trail *audit.Trail) (string, error) {
	retrieveStart := time.Now()
	docs, err := r.deps.Retriever.Retrieve(ctx, query)
	trail.Steps = append(trail.Steps, audit.Step{Name: "retrieve", DurationMs: time.Since(retrieveStart).Milliseconds()})
	if err != nil {
		return "", fmt.Errorf("document retrieval failed: %w", err)
	}

	contextBlock := retrieval.BuildContext(docs)
	if contextBlock == "" {
		contextBlock = noDocumentsContext
	}

	genStart := time.Now()
	out, err := r.deps.Generator.Generate(ctx, llm.TemplateCollegeInfo, map[string]string{
		"context": contextBlock,
		"query":   query,
	})
	trail.Steps = append(trail.Steps, audit.Step{Name: "generate", DurationMs: time.Since(genStart).Milliseconds()})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return out, nil
}

// general runs the web-search path. A search failure is not a dispatch
// failure: the router substitutes a placeholder and still generates.
func (r *Router) general(ctx context.Context, query string, trail *audit.Trail) (string, error) {
	searchStart := time.Now()
	results, err := r.deps.Searcher.Search(ctx, query)
	trail.Steps = append(trail.Steps, audit.Step{Name: "search", DurationMs: time.Since(searchStart).Milliseconds()})
	if err != nil {
		r.logger.Warn("search failed, continuing with placeholder", zap.Error(err))
		results = searchUnavailable
	}

	genStart := time.Now()
	out, err := r.deps.Generator.Generate(ctx, llm.TemplateGeneral, map[string]string{
		"query":          query,
		"search_results": results,
	})
	trail.Steps = append(trail.Steps, audit.Step{Name: "generate", DurationMs: time.Since(genStart).Milliseconds()})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return out, nil
}

// EngineStatus exposes the classifier snapshot for health reporting.
func (r *Router) EngineStatus() models.EngineStatus {
	return r.deps.Classifier.Status()
}
