package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_Route(t *testing.T) {
	tests := []struct {
		name string
		resp string
		err  error
		want string
	}{
		{"web answer", "WEB", nil, RouteWeb},
		{"chat answer", "CHAT", nil, RouteChat},
		{"lowercase web", "web", nil, RouteWeb},
		{"padded answer", "  WEB\n", nil, RouteWeb},
		{"verbose answer", "I think WEB is needed here", nil, RouteWeb},
		{"garbage defaults to chat", "maybe?", nil, RouteChat},
		{"error defaults to chat", "", errors.New("model down"), RouteChat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{invokeResp: tt.resp, invokeErr: tt.err}
			r := NewRouter(llm)
			assert.Equal(t, tt.want, r.Route(context.Background(), "query", "history"))
		})
	}
}

func TestRouter_PromptCarriesQueryAndHistory(t *testing.T) {
	llm := &fakeLLM{invokeResp: "CHAT"}
	r := NewRouter(llm)

	r.Route(context.Background(), "what is the latest news?", "user: hi\nbot: hello")

	prompt := llm.lastPrompt()
	assert.Contains(t, prompt, "what is the latest news?")
	assert.Contains(t, prompt, "user: hi\nbot: hello")
}
