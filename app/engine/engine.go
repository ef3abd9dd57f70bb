package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"docchat/logger"
	"docchat/model"
	"docchat/store"
	"docchat/types"

	"github.com/pkoukk/tiktoken-go"
)

// Params are the answering knobs, wired from config.
type Params struct {
	DocTopK      int
	HybridTopK   int
	MemoryWindow int
	// DocMemory includes recent turns in document grounded prompts.
	DocMemory   bool
	Temperature float64
}

// Engine turns a question into an answer for one session, choosing between
// document grounded retrieval and open ended generation by mode. On success
// it records the turn; a failed call leaves the session untouched.
type Engine struct {
	provider model.Provider
	embedder model.Embedder
	sessions store.SessionStorer
	log      *logger.Logger
	params   Params
}

func New(provider model.Provider, embedder model.Embedder, sessions store.SessionStorer, log *logger.Logger, params Params) *Engine {
	return &Engine{
		provider: provider,
		embedder: embedder,
		sessions: sessions,
		log:      log,
		params:   params,
	}
}

// Answer resolves the session, produces an answer in the given mode and
// appends the completed turn. An empty mode means document_only. The model
// output is returned verbatim.
func (e *Engine) Answer(ctx context.Context, sessionID, question, mode string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", types.ErrEmptyQuestion()
	}
	if mode == "" {
		mode = types.ModeDocumentOnly
	}
	if !types.KnownMode(mode) {
		return "", types.ErrBadRequest(fmt.Sprintf("unknown mode %q", mode))
	}

	sess := e.sessions.GetOrCreate(sessionID)
	history := sess.History()

	start := time.Now()
	var answer string
	var err error
	switch mode {
	case types.ModeDocumentOnly:
		answer, err = e.answerFromDocument(ctx, sess, question, history)
	default:
		answer, err = e.answerOpenEnded(ctx, sess, question, mode, history)
	}
	if err != nil {
		return "", err
	}

	e.log.Info("engine", "answer generated", map[string]interface{}{
		"session_id": sess.ID,
		"mode":       mode,
		"took":       time.Since(start).String(),
	})

	e.sessions.AppendTurn(sess.ID, types.Turn{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
		Mode:      mode,
	})
	return answer, nil
}

// answerFromDocument retrieves the closest chunks and asks the chat model to
// answer from them alone.
func (e *Engine) answerFromDocument(ctx context.Context, sess *store.Session, question string, history []types.Turn) (string, error) {
	idx := sess.Index()
	if idx == nil {
		return "", types.ErrNoDocumentIndexed()
	}

	vector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return "", types.ErrGenerationFailed(fmt.Errorf("embed question: %w", err))
	}
	results, err := idx.Search(ctx, vector, e.params.DocTopK)
	if err != nil {
		return "", types.ErrGenerationFailed(fmt.Errorf("search index: %w", err))
	}

	var turns []types.Turn
	if e.params.DocMemory {
		turns = LastTurns(history, e.params.MemoryWindow)
	}
	messages := documentPrompt(question, results, turns)
	e.logPromptSize(sess.ID, types.ModeDocumentOnly, flatten(messages))

	answer, err := e.provider.Chat(ctx, messages, model.WithTemperature(e.params.Temperature))
	if err != nil {
		return "", types.ErrGenerationFailed(err)
	}
	return answer, nil
}

// answerOpenEnded serves hybrid and open questions with a single composed
// prompt. Hybrid retrieves when the session has an index, open never does.
func (e *Engine) answerOpenEnded(ctx context.Context, sess *store.Session, question, mode string, history []types.Turn) (string, error) {
	var results []types.SearchResult
	if mode == types.ModeHybrid {
		if idx := sess.Index(); idx != nil {
			vector, err := e.embedder.Embed(ctx, question)
			if err != nil {
				return "", types.ErrGenerationFailed(fmt.Errorf("embed question: %w", err))
			}
			results, err = idx.Search(ctx, vector, e.params.HybridTopK)
			if err != nil {
				return "", types.ErrGenerationFailed(fmt.Errorf("search index: %w", err))
			}
		}
	}

	prompt := transcriptPrompt(question, results, LastTurns(history, e.params.MemoryWindow))
	e.logPromptSize(sess.ID, mode, prompt)

	answer, err := e.provider.Generate(ctx, prompt, model.WithTemperature(e.params.Temperature))
	if err != nil {
		return "", types.ErrGenerationFailed(err)
	}
	return answer, nil
}

// logPromptSize reports the composed prompt size. Counting is best-effort:
// when the encoder is unavailable only the log line is lost.
func (e *Engine) logPromptSize(sessionID, mode, prompt string) {
	count, err := countTokens(prompt)
	if err != nil {
		return
	}
	e.log.Debug("engine", "prompt composed", map[string]interface{}{
		"session_id": sessionID,
		"mode":       mode,
		"tokens":     count,
		"chars":      len(prompt),
	})
}

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

func countTokens(text string) (int, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.EncodingForModel("gpt-3.5-turbo")
	})
	if encErr != nil {
		return 0, encErr
	}
	return len(enc.Encode(text, nil, nil)), nil
}
