// Package llm provides the text-generation clients used for daily feedback.
package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

const (
	BackendOpenAI = "openai"
	BackendLocal  = "local"
)

// Completer sends a system and a user message and returns the model's text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Options struct {
	Backend  string
	APIURL   string
	APIKey   string
	Model    string
	LocalURL string
	Timeout  time.Duration
}

// New builds the Completer selected by opts.Backend. Every call is bounded by
// opts.Timeout when it is positive.
func New(logger *log.Logger, opts Options) (Completer, error) {
	var c Completer
	switch opts.Backend {
	case BackendOpenAI, "":
		if opts.Model == "" {
			return nil, errors.New("llm: model is required")
		}
		c = NewOpenAI(logger, opts.APIKey, opts.APIURL, opts.Model)
	case BackendLocal:
		if opts.LocalURL == "" {
			return nil, errors.New("llm: local generate url is required")
		}
		c = NewLocal(logger, opts.LocalURL, &http.Client{})
	default:
		return nil, errors.Errorf("llm: unknown backend %q", opts.Backend)
	}

	if opts.Timeout > 0 {
		c = &timeoutCompleter{next: c, timeout: opts.Timeout}
	}
	return c, nil
}

type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

func (t *timeoutCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, system, user)
}
