package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"go.uber.org/zap"
)

const (
	RouteWeb  = "WEB"
	RouteChat = "CHAT"
)

const routerPromptTmpl = `You are a routing assistant. Decide if the latest user query requires external knowledge from the Internet (e.g. current events, specific facts not in conversation, up-to-date info) or if it can be answered from the chat history.

Conversation History Summary:
%s

Latest Query: %s

Answer ONLY with 'WEB' if internet search is needed, or 'CHAT' if not needed.`

// Router asks the model whether a query needs a live web search. Any failure
// or ambiguous answer routes to CHAT.
type Router struct {
	llm domain.LLMService
}

func NewRouter(llm domain.LLMService) *Router {
	return &Router{llm: llm}
}

func (r *Router) Route(ctx context.Context, query, historyStr string) string {
	prompt := fmt.Sprintf(routerPromptTmpl, historyStr, query)
	resp, err := r.llm.Invoke(ctx, prompt)
	if err != nil {
		logging.L().Warn("router error, defaulting to CHAT", zap.Error(err))
		return RouteChat
	}
	if strings.Contains(strings.ToUpper(strings.TrimSpace(resp)), RouteWeb) {
		return RouteWeb
	}
	return RouteChat
}
